package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stac-utils/hydrate"
	"github.com/stac-utils/hydrate/internal/logging"
)

// redisAddrEnv is consulted when no Redis address is given by flag or config.
const redisAddrEnv = "HYDRATE_REDIS_ADDR"

// app carries state shared by subcommands once global flags are resolved.
type app struct {
	log    *slog.Logger
	decode hydrate.DecodeOpt
}

func newRootCmd() *cobra.Command {
	a := &app{log: logging.NewNop()}

	root := &cobra.Command{
		Use:   "hydrate",
		Short: "Merge dehydrated items into their collection base template",
		Long: `hydrate restores full documents from items stored relative to a shared
base template. Keys missing from an item are filled in from the base, and keys
the item marks with the tombstone marker are removed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML config file providing flag defaults")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.Int("max-depth", 0, "Maximum nesting depth of input documents (0 = unlimited)")
	pf.Int64("max-bytes", 0, "Maximum size in bytes of one input document (0 = unlimited)")

	root.AddCommand(newMergeCmd(a), newBatchCmd(a), newPutBaseCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	fs := cmd.Flags()
	if path, _ := fs.GetString("config"); path != "" {
		cfg, err := loadConfig(path)
		if err != nil {
			return err
		}
		if err := cfg.apply(fs); err != nil {
			return err
		}
	}
	if f := fs.Lookup("redis-addr"); f != nil && f.Value.String() == "" {
		if addr := os.Getenv(redisAddrEnv); addr != "" {
			_ = f.Value.Set(addr)
		}
	}

	levelName, _ := fs.GetString("log-level")
	format, _ := fs.GetString("log-format")
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	log, err := logging.New(cmd.ErrOrStderr(), level, format)
	if err != nil {
		return err
	}
	a.log = log

	maxDepth, _ := fs.GetInt("max-depth")
	maxBytes, _ := fs.GetInt64("max-bytes")
	a.decode = hydrate.DecodeOpt{
		OnDuplicateKey: hydrate.Warn,
		MaxDepth:       maxDepth,
		MaxBytes:       maxBytes,
		IssueSink: func(iss hydrate.Issue) {
			a.log.Warn("duplicate key, last value wins", "path", iss.Path, "offset", iss.Offset)
		},
	}
	return nil
}

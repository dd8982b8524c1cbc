package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stac-utils/hydrate"
)

func newMergeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge --base FILE --item FILE",
		Short: "Hydrate a single item with a base template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			basePath, _ := cmd.Flags().GetString("base")
			itemPath, _ := cmd.Flags().GetString("item")
			format, _ := cmd.Flags().GetString("format")
			shared, _ := cmd.Flags().GetBool("shared")
			if basePath == "-" && itemPath == "-" {
				return fmt.Errorf("--base and --item cannot both read stdin")
			}

			ctx := cmd.Context()
			base, err := readDocument(ctx, cmd, basePath, a.decode)
			if err != nil {
				return err
			}
			item, err := readDocument(ctx, cmd, itemPath, a.decode)
			if err != nil {
				return err
			}

			merge := hydrate.Hydrate
			if shared {
				merge = hydrate.HydrateShared
			}
			out, err := merge(base, item)
			if err != nil {
				return err
			}
			a.log.Debug("merged", "base", basePath, "item", itemPath)
			return writeDocument(cmd.OutOrStdout(), out, format)
		},
	}
	cmd.Flags().String("base", "", "Base template file (JSON or YAML)")
	cmd.Flags().String("item", "-", "Item file (JSON or YAML), - for stdin")
	cmd.Flags().String("format", "json", "Output format (json, yaml)")
	cmd.Flags().Bool("shared", false, "Share base subtrees with the result instead of copying")
	_ = cmd.MarkFlagRequired("base")
	return cmd
}

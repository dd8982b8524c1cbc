package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/stac-utils/hydrate/store/redis"
)

func newPutBaseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put-base --collection ID --file FILE",
		Short: "Store a collection base template in Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, _ := cmd.Flags().GetString("collection")
			file, _ := cmd.Flags().GetString("file")
			compress, _ := cmd.Flags().GetBool("compress")

			var extra []redis.Option
			if compress {
				extra = append(extra, redis.WithCompression())
			}
			s, err := redisStore(cmd, a.decode, extra...)
			if err != nil {
				return err
			}
			if s == nil {
				return errors.New("put-base needs --redis-addr or $" + redisAddrEnv)
			}
			defer s.Close()

			ctx := cmd.Context()
			base, err := readDocument(ctx, cmd, file, a.decode)
			if err != nil {
				return err
			}
			if err := s.PutBase(ctx, collection, base); err != nil {
				return err
			}
			a.log.Info("base stored", "collection", collection, "compressed", compress)
			return nil
		},
	}
	cmd.Flags().String("collection", "", "Collection id")
	cmd.Flags().String("file", "-", "Base template file (JSON or YAML), - for stdin")
	cmd.Flags().Bool("compress", false, "Store the payload zstd-compressed")
	_ = cmd.MarkFlagRequired("collection")
	addRedisFlags(cmd)
	return cmd
}

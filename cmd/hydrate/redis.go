package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stac-utils/hydrate"
	"github.com/stac-utils/hydrate/store/redis"
)

func addRedisFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("redis-addr", "", "Redis address (host:port); defaults to $"+redisAddrEnv)
	f.String("redis-password", "", "Redis password")
	f.Int("redis-db", 0, "Redis database number")
	f.String("redis-prefix", redis.DefaultPrefix, "Key prefix for stored bases")
	f.String("redis-ttl", "", "Expiration for stored bases, e.g. 24h (empty = none)")
}

// redisStore builds a store from the redis-* flags. It returns nil when no
// address is configured.
func redisStore(cmd *cobra.Command, decode hydrate.DecodeOpt, extra ...redis.Option) (*redis.Store, error) {
	f := cmd.Flags()
	addr, _ := f.GetString("redis-addr")
	if addr == "" {
		return nil, nil
	}
	password, _ := f.GetString("redis-password")
	db, _ := f.GetInt("redis-db")
	prefix, _ := f.GetString("redis-prefix")
	ttlText, _ := f.GetString("redis-ttl")

	opts := []redis.Option{redis.WithPrefix(prefix), redis.WithDecodeOpt(decode)}
	if ttlText != "" {
		ttl, err := time.ParseDuration(ttlText)
		if err != nil {
			return nil, fmt.Errorf("--redis-ttl: %w", err)
		}
		opts = append(opts, redis.WithTTL(ttl))
	}
	opts = append(opts, extra...)
	return redis.New(addr, password, db, opts...), nil
}

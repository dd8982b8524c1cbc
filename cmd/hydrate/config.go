package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the command-line flags. Values from the file are
// defaults; flags given on the command line win.
type fileConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	MaxDepth  int    `yaml:"max_depth"`
	MaxBytes  int64  `yaml:"max_bytes"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
		TTL      string `yaml:"ttl"`
		Compress bool   `yaml:"compress"`
	} `yaml:"redis"`

	Batch struct {
		Bases         string `yaml:"bases"`
		Workers       int    `yaml:"workers"`
		CacheSize     int    `yaml:"cache_size"`
		CollectionKey string `yaml:"collection_key"`
		AllowOrphans  bool   `yaml:"allow_orphans"`
		Shared        bool   `yaml:"shared"`
		MetricsAddr   string `yaml:"metrics_addr"`
	} `yaml:"batch"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// flagValues lists the set values keyed by flag name.
func (c *fileConfig) flagValues() map[string]string {
	out := map[string]string{}
	str := func(name, v string) {
		if v != "" {
			out[name] = v
		}
	}
	num := func(name string, v int64) {
		if v != 0 {
			out[name] = strconv.FormatInt(v, 10)
		}
	}
	boolean := func(name string, v bool) {
		if v {
			out[name] = "true"
		}
	}
	str("log-level", c.LogLevel)
	str("log-format", c.LogFormat)
	num("max-depth", int64(c.MaxDepth))
	num("max-bytes", c.MaxBytes)
	str("redis-addr", c.Redis.Addr)
	str("redis-password", c.Redis.Password)
	num("redis-db", int64(c.Redis.DB))
	str("redis-prefix", c.Redis.Prefix)
	str("redis-ttl", c.Redis.TTL)
	boolean("compress", c.Redis.Compress)
	str("bases", c.Batch.Bases)
	num("workers", int64(c.Batch.Workers))
	num("cache-size", int64(c.Batch.CacheSize))
	str("collection-key", c.Batch.CollectionKey)
	boolean("allow-orphans", c.Batch.AllowOrphans)
	boolean("shared", c.Batch.Shared)
	str("metrics-addr", c.Batch.MetricsAddr)
	return out
}

// apply sets every flag in fs that was not given on the command line and has
// a value in the config.
func (c *fileConfig) apply(fs *pflag.FlagSet) error {
	for name, v := range c.flagValues() {
		f := fs.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		if err := f.Value.Set(v); err != nil {
			return fmt.Errorf("config %s: %w", name, err)
		}
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/stac-utils/hydrate/catalog"
	"github.com/stac-utils/hydrate/internal/metrics"
	"github.com/stac-utils/hydrate/store"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch --bases DIR | --redis-addr ADDR",
		Short: "Hydrate a stream of items (NDJSON or a JSON array)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			dir, _ := f.GetString("bases")
			in, _ := f.GetString("in")
			outPath, _ := f.GetString("out")
			workers, _ := f.GetInt("workers")
			cacheSize, _ := f.GetInt("cache-size")
			collectionKey, _ := f.GetString("collection-key")
			allowOrphans, _ := f.GetBool("allow-orphans")
			shared, _ := f.GetBool("shared")
			metricsAddr, _ := f.GetString("metrics-addr")
			ctx := cmd.Context()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m := metrics.New(reg)
			if metricsAddr != "" {
				stop, err := serveMetrics(a, metricsAddr, reg)
				if err != nil {
					return err
				}
				defer stop()
			}

			var bases store.BaseStore
			switch {
			case dir != "":
				s, n, err := loadBaseDir(ctx, cmd, dir, a.decode)
				if err != nil {
					return err
				}
				a.log.Info("bases loaded", "dir", dir, "collections", n)
				bases = s
			default:
				s, err := redisStore(cmd, a.decode)
				if err != nil {
					return err
				}
				if s == nil {
					return errors.New("batch needs --bases or --redis-addr")
				}
				defer s.Close()
				bases = store.NewCached(s, cacheSize, store.WithObserver(m.CacheLookup))
			}

			r, err := openInput(cmd, in)
			if err != nil {
				return err
			}
			defer r.Close()
			w, err := openOutput(cmd, outPath)
			if err != nil {
				return err
			}

			h := catalog.New(bases,
				catalog.WithWorkers(workers),
				catalog.WithCollectionKey(collectionKey),
				catalog.WithAllowOrphans(allowOrphans),
				catalog.WithSharedBase(shared),
				catalog.WithDecodeOpt(a.decode),
				catalog.WithLogger(a.log),
				catalog.WithMetrics(m),
			)
			start := time.Now()
			stats, err := h.HydrateStream(ctx, r, w)
			if cerr := w.Close(); err == nil && cerr != nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			a.log.Info("batch done", "items", stats.Items, "hydrated", stats.Hydrated, "orphans", stats.Orphans, "elapsed", time.Since(start))
			return nil
		},
	}
	f := cmd.Flags()
	f.String("bases", "", "Directory of <collection>.json|.yaml base templates")
	f.String("in", "-", "Input file, - for stdin")
	f.String("out", "-", "Output file, - for stdout")
	f.Int("workers", 4, "Items hydrated concurrently")
	f.Int("cache-size", 64, "Bases kept in memory when reading from Redis")
	f.String("collection-key", catalog.DefaultCollectionKey, "Item member naming its collection")
	f.Bool("allow-orphans", false, "Pass items without a collection through unchanged")
	f.Bool("shared", false, "Share base subtrees with results instead of copying")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address while running, e.g. :9090")
	addRedisFlags(cmd)
	return cmd
}

// serveMetrics exposes reg on addr until the returned stop is called.
func serveMetrics(a *app, addr string, reg *prometheus.Registry) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server", "error", err)
		}
	}()
	a.log.Info("serving metrics", "addr", ln.Addr().String())
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

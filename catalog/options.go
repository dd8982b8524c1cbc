package catalog

import (
	"log/slog"

	"github.com/stac-utils/hydrate"
	"github.com/stac-utils/hydrate/internal/metrics"
)

// DefaultCollectionKey is the item member naming its collection.
const DefaultCollectionKey = "collection"

type Option func(*Hydrator)

// WithCollectionKey sets the item member read to find the collection id.
func WithCollectionKey(key string) Option {
	return func(h *Hydrator) {
		h.collectionKey = key
	}
}

// WithAllowOrphans passes items without a collection through unchanged
// instead of failing with ErrNoCollection.
func WithAllowOrphans(allow bool) Option {
	return func(h *Hydrator) {
		h.allowOrphans = allow
	}
}

// WithWorkers sets how many items HydrateStream processes concurrently.
// Values below one mean one.
func WithWorkers(n int) Option {
	return func(h *Hydrator) {
		if n < 1 {
			n = 1
		}
		h.workers = n
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(h *Hydrator) {
		if log != nil {
			h.log = log
		}
	}
}

// WithMetrics records per-item outcomes and durations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Hydrator) {
		h.metrics = m
	}
}

// WithDecodeOpt sets the limits used when decoding items in HydrateStream.
func WithDecodeOpt(opt hydrate.DecodeOpt) Option {
	return func(h *Hydrator) {
		h.decode = opt
	}
}

// WithSharedBase makes results share subtrees with the stored base instead
// of copying them. Results must then be treated as read-only.
func WithSharedBase(shared bool) Option {
	return func(h *Hydrator) {
		h.shared = shared
	}
}

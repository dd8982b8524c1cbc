// Package catalog hydrates items against the base template of their
// collection, one at a time or as a stream.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stac-utils/hydrate"
	"github.com/stac-utils/hydrate/internal/logging"
	"github.com/stac-utils/hydrate/internal/metrics"
	"github.com/stac-utils/hydrate/store"
)

// ErrNoCollection is returned for an item that does not name a collection.
var ErrNoCollection = errors.New("catalog: item has no collection")

// Hydrator looks up base templates in a BaseStore and merges items into them.
// It is safe for concurrent use.
type Hydrator struct {
	bases         store.BaseStore
	collectionKey string
	allowOrphans  bool
	workers       int
	log           *slog.Logger
	metrics       *metrics.Metrics
	decode        hydrate.DecodeOpt
	shared        bool
}

// New creates a Hydrator reading bases from bases.
func New(bases store.BaseStore, opts ...Option) *Hydrator {
	h := &Hydrator{
		bases:         bases,
		collectionKey: DefaultCollectionKey,
		workers:       1,
		log:           logging.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Collection returns the collection id named by item, if any.
func (h *Hydrator) Collection(item hydrate.Value) (string, bool) {
	o, ok := item.AsObject()
	if !ok {
		return "", false
	}
	v, ok := o.Get(h.collectionKey)
	if !ok {
		return "", false
	}
	id, ok := v.AsString()
	return id, ok && id != ""
}

// HydrateItem merges item into the base of its collection.
func (h *Hydrator) HydrateItem(ctx context.Context, item hydrate.Value) (hydrate.Value, error) {
	start := time.Now()
	out, outcome, err := h.hydrateItem(ctx, item)
	h.metrics.Item(outcome, time.Since(start))
	return out, err
}

func (h *Hydrator) hydrateItem(ctx context.Context, item hydrate.Value) (hydrate.Value, string, error) {
	id, ok := h.Collection(item)
	if !ok {
		if h.allowOrphans {
			h.log.Debug("item without collection passed through")
			return item, metrics.OutcomeOrphan, nil
		}
		return hydrate.Value{}, metrics.OutcomeError, ErrNoCollection
	}

	base, err := h.bases.Base(ctx, id)
	if err != nil {
		return hydrate.Value{}, metrics.OutcomeError, fmt.Errorf("collection %q: %w", id, err)
	}

	var out hydrate.Value
	if h.shared {
		out, err = hydrate.HydrateShared(base, item)
	} else {
		out, err = hydrate.Hydrate(base, item)
	}
	if err != nil {
		return hydrate.Value{}, metrics.OutcomeError, fmt.Errorf("collection %q: %w", id, err)
	}
	return out, metrics.OutcomeHydrated, nil
}

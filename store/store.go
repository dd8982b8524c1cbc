// Package store defines where base templates come from. A base template is
// the document shared by every item of one collection; items are stored
// against it in dehydrated form and recovered with hydrate.Hydrate.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/stac-utils/hydrate"
)

// ErrBaseNotFound is returned when no base template exists for a collection.
var ErrBaseNotFound = errors.New("store: base not found")

// BaseStore loads and saves base templates keyed by collection id.
//
// Values returned by Base may be shared with other callers and must be
// treated as read-only.
type BaseStore interface {
	Base(ctx context.Context, collection string) (hydrate.Value, error)
	PutBase(ctx context.Context, collection string, base hydrate.Value) error
}

// Cached is a bounded read-through cache in front of another BaseStore.
// When full, the oldest entry is evicted first.
type Cached struct {
	inner   BaseStore
	size    int
	observe func(hit bool)

	mu      sync.Mutex
	entries map[string]hydrate.Value
	order   []string
}

// CacheOption configures a Cached store.
type CacheOption func(*Cached)

// WithObserver registers fn to be called on every lookup with whether it was
// served from the cache.
func WithObserver(fn func(hit bool)) CacheOption {
	return func(c *Cached) {
		c.observe = fn
	}
}

// NewCached wraps inner with a cache holding at most size bases. A size below
// one is treated as one.
func NewCached(inner BaseStore, size int, opts ...CacheOption) *Cached {
	if size < 1 {
		size = 1
	}
	c := &Cached{
		inner:   inner,
		size:    size,
		entries: make(map[string]hydrate.Value, size),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the cached base for collection, loading it from the inner
// store on a miss. Failed loads are not cached.
func (c *Cached) Base(ctx context.Context, collection string) (hydrate.Value, error) {
	c.mu.Lock()
	v, ok := c.entries[collection]
	c.mu.Unlock()
	if c.observe != nil {
		c.observe(ok)
	}
	if ok {
		return v, nil
	}

	v, err := c.inner.Base(ctx, collection)
	if err != nil {
		return hydrate.Value{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[collection]; !ok {
		if len(c.order) >= c.size {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, collection)
	}
	c.entries[collection] = v
	return v, nil
}

// PutBase writes through to the inner store and drops any cached copy.
func (c *Cached) PutBase(ctx context.Context, collection string, base hydrate.Value) error {
	if err := c.inner.PutBase(ctx, collection, base); err != nil {
		return err
	}
	c.Invalidate(collection)
	return nil
}

// Invalidate removes collection from the cache.
func (c *Cached) Invalidate(collection string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[collection]; !ok {
		return
	}
	delete(c.entries, collection)
	for i, k := range c.order {
		if k == collection {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of cached bases.
func (c *Cached) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

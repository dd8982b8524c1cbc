// Package memory provides an in-process BaseStore.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/stac-utils/hydrate"
	"github.com/stac-utils/hydrate/store"
)

// Store keeps base templates in a map. Values are cloned on the way in and
// out so callers never share state with the store.
type Store struct {
	mu    sync.RWMutex
	bases map[string]hydrate.Value
}

// New creates an empty Store.
func New() *Store {
	return &Store{bases: make(map[string]hydrate.Value)}
}

// Base returns a copy of the base for collection.
func (s *Store) Base(ctx context.Context, collection string) (hydrate.Value, error) {
	if err := ctx.Err(); err != nil {
		return hydrate.Value{}, err
	}
	s.mu.RLock()
	v, ok := s.bases[collection]
	s.mu.RUnlock()
	if !ok {
		return hydrate.Value{}, fmt.Errorf("%w: %q", store.ErrBaseNotFound, collection)
	}
	return v.Clone(), nil
}

// PutBase stores a copy of base for collection, replacing any previous one.
func (s *Store) PutBase(ctx context.Context, collection string, base hydrate.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.bases[collection] = base.Clone()
	s.mu.Unlock()
	return nil
}

// Collections returns the stored collection ids in no particular order.
func (s *Store) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.bases))
	for k := range s.bases {
		out = append(out, k)
	}
	return out
}

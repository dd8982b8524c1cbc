// Package storetest holds a conformance suite shared by BaseStore
// implementations.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stac-utils/hydrate"
	"github.com/stac-utils/hydrate/store"
)

// RunBaseStoreContract checks that s behaves like a BaseStore: round trips
// keep member order and number literals, missing collections report
// ErrBaseNotFound and a second PutBase replaces the first.
func RunBaseStoreContract(t *testing.T, s store.BaseStore) {
	t.Helper()
	ctx := context.Background()

	base, err := hydrate.DecodeJSON([]byte(`{"type":"Feature","stac_version":"1.0.0","assets":{"thumb":{"roles":["thumbnail"],"size":1.50}},"links":[]}`))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("PutBase and Base", func(t *testing.T) {
		if err := s.PutBase(ctx, "landsat", base); err != nil {
			t.Fatalf("PutBase: %v", err)
		}
		got, err := s.Base(ctx, "landsat")
		if err != nil {
			t.Fatalf("Base: %v", err)
		}
		if !got.Equal(base) {
			t.Fatalf("round trip changed base:\n got %s\nwant %s", got, base)
		}
	})

	t.Run("Base missing", func(t *testing.T) {
		_, err := s.Base(ctx, "no-such-collection")
		if !errors.Is(err, store.ErrBaseNotFound) {
			t.Fatalf("want ErrBaseNotFound, got %v", err)
		}
	})

	t.Run("PutBase replaces", func(t *testing.T) {
		next := hydrate.ObjectOf(hydrate.M("type", hydrate.String("Collection")))
		if err := s.PutBase(ctx, "landsat", next); err != nil {
			t.Fatalf("PutBase: %v", err)
		}
		got, err := s.Base(ctx, "landsat")
		if err != nil {
			t.Fatalf("Base: %v", err)
		}
		if !got.Equal(next) {
			t.Fatalf("got %s", got)
		}
	})

	t.Run("scalar base", func(t *testing.T) {
		if err := s.PutBase(ctx, "scalar", hydrate.Null()); err != nil {
			t.Fatalf("PutBase: %v", err)
		}
		got, err := s.Base(ctx, "scalar")
		if err != nil {
			t.Fatalf("Base: %v", err)
		}
		if !got.IsNull() {
			t.Fatalf("got %s", got)
		}
	})
}

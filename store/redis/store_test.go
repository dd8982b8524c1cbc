package redis_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"

	"github.com/stac-utils/hydrate"
	"github.com/stac-utils/hydrate/store"
	"github.com/stac-utils/hydrate/store/redis"
	"github.com/stac-utils/hydrate/store/storetest"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisStore_Contract(t *testing.T) {
	s, _ := newStore(t)
	storetest.RunBaseStoreContract(t, s)
}

func TestRedisStore_ContractCompressed(t *testing.T) {
	s, _ := newStore(t, redis.WithCompression())
	storetest.RunBaseStoreContract(t, s)
}

func TestRedisStore_PayloadLayout(t *testing.T) {
	ctx := context.Background()
	base := hydrate.ObjectOf(hydrate.M("b", hydrate.Int(1)), hydrate.M("a", hydrate.String("x")))

	plain, mr := newStore(t, redis.WithPrefix("t:"))
	if err := plain.PutBase(ctx, "c1", base); err != nil {
		t.Fatal(err)
	}
	raw, err := mr.Get("t:c1")
	if err != nil {
		t.Fatal(err)
	}
	if raw != `{"b":1,"a":"x"}` {
		t.Fatalf("raw=%q", raw)
	}

	packed, mr2 := newStore(t, redis.WithCompression())
	if err := packed.PutBase(ctx, "c1", base); err != nil {
		t.Fatal(err)
	}
	raw, err = mr2.Get(redis.DefaultPrefix + "c1")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix([]byte(raw), []byte{0x28, 0xb5, 0x2f, 0xfd}) {
		t.Fatalf("payload is not a zstd frame: %q", raw)
	}
}

func TestRedisStore_ReadsPlainPayloadWhenCompressing(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t, redis.WithCompression())
	if err := mr.Set(redis.DefaultPrefix+"legacy", `{"type":"Feature"}`); err != nil {
		t.Fatal(err)
	}
	v, err := s.Base(ctx, "legacy")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != `{"type":"Feature"}` {
		t.Fatalf("got %s", v)
	}
}

func TestRedisStore_TTLAndDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t, redis.WithTTL(time.Minute))
	if err := s.PutBase(ctx, "c", hydrate.Null()); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL(redis.DefaultPrefix + "c"); ttl != time.Minute {
		t.Fatalf("ttl=%v", ttl)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := s.Base(ctx, "c"); !errors.Is(err, store.ErrBaseNotFound) {
		t.Fatalf("expired base: got %v", err)
	}

	if err := s.PutBase(ctx, "d", hydrate.Null()); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "d"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Base(ctx, "d"); !errors.Is(err, store.ErrBaseNotFound) {
		t.Fatalf("deleted base: got %v", err)
	}
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	s, mr := newStore(t)
	if err := mr.Set(redis.DefaultPrefix+"bad", `{"a":`); err != nil {
		t.Fatal(err)
	}
	_, err := s.Base(context.Background(), "bad")
	if _, ok := hydrate.AsIssues(err); !ok {
		t.Fatalf("want decode issues, got %v", err)
	}
}

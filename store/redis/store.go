// Package redis stores base templates in Redis.
package redis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	backend "github.com/redis/go-redis/v9"

	"github.com/stac-utils/hydrate"
	"github.com/stac-utils/hydrate/store"
)

// DefaultPrefix is prepended to collection ids to form Redis keys.
const DefaultPrefix = "hydrate:base:"

// zstdMagic starts every zstd frame. Payloads without it are plain JSON.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// zstd.Encoder and zstd.Decoder are safe for concurrent use in their
// EncodeAll/DecodeAll forms.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("redis: zstd encoder: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("redis: zstd decoder: " + err.Error())
	}
}

// Store implements store.BaseStore using Redis.
type Store struct {
	client   *backend.Client
	prefix   string
	ttl      time.Duration
	compress bool
	decode   hydrate.DecodeOpt
}

type Option func(*Store)

// WithTTL sets the expiration for stored bases.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithCompression zstd-compresses payloads written by PutBase. Reads accept
// both compressed and plain payloads regardless of this option.
func WithCompression() Option {
	return func(s *Store) {
		s.compress = true
	}
}

// WithDecodeOpt sets the limits applied when decoding stored payloads.
func WithDecodeOpt(opt hydrate.DecodeOpt) Option {
	return func(s *Store) {
		s.decode = opt
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(collection string) string {
	return s.prefix + collection
}

// PutBase persists base under the collection key.
func (s *Store) PutBase(ctx context.Context, collection string, base hydrate.Value) error {
	data, err := base.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal base: %w", err)
	}
	if s.compress {
		data = zstdEncoder.EncodeAll(data, nil)
	}
	if err := s.client.Set(ctx, s.key(collection), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Base loads the base stored for collection.
func (s *Store) Base(ctx context.Context, collection string) (hydrate.Value, error) {
	data, err := s.client.Get(ctx, s.key(collection)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return hydrate.Value{}, fmt.Errorf("%w: %q", store.ErrBaseNotFound, collection)
		}
		return hydrate.Value{}, fmt.Errorf("failed to get from redis: %w", err)
	}
	if bytes.HasPrefix(data, zstdMagic) {
		data, err = zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return hydrate.Value{}, fmt.Errorf("zstd decompress %q: %w", collection, err)
		}
	}
	v, err := hydrate.DecodeJSON(data, s.decode)
	if err != nil {
		return hydrate.Value{}, fmt.Errorf("failed to decode base %q: %w", collection, err)
	}
	return v, nil
}

// Delete removes the base for collection.
func (s *Store) Delete(ctx context.Context, collection string) error {
	return s.client.Del(ctx, s.key(collection)).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

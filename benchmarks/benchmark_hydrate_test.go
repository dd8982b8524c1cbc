package hydrate_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"testing"

	"github.com/stac-utils/hydrate"
	"github.com/stac-utils/hydrate/catalog"
	"github.com/stac-utils/hydrate/store/memory"
)

// ---- Helpers ----

// baseJSON is a collection base with a handful of assets and shared
// properties, the shape item bases usually take.
func baseJSON(assets int) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"Feature","stac_version":"1.0.0","stac_extensions":["eo","proj"],"assets":{`)
	for i := 0; i < assets; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `"B%d":{"type":"image/tiff; application=geotiff","roles":["data"],"eo:bands":[{"name":"B%d","common_name":"band%d"}]}`, i, i, i)
	}
	buf.WriteString(`},"properties":{"platform":"landsat-8","instruments":["oli","tirs"]},"links":[]}`)
	return buf.Bytes()
}

// itemJSON is the dehydrated form of item i: only hrefs and per-item values.
func itemJSON(i, assets int) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{"id":"item_%d","collection":"landsat","properties":{"datetime":"2020-01-01T00:00:00Z","eo:cloud_cover":%d},"assets":{`, i, i%100)
	for k := 0; k < assets; k++ {
		if k > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"B`)
		buf.WriteString(strconv.Itoa(k))
		fmt.Fprintf(&buf, `":{"href":"s3://bucket/item_%d/B%d.tif"}`, i, k)
	}
	buf.WriteString(`},"stac_extensions":"` + hydrate.MagicMarker + `"}`)
	return buf.Bytes()
}

func generateNDJSON(items, assets int) []byte {
	var buf bytes.Buffer
	for i := 0; i < items; i++ {
		buf.Write(itemJSON(i, assets))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func generateArray(items, assets int) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < items; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(itemJSON(i, assets))
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func mustDecode(tb testing.TB, data []byte) hydrate.Value {
	tb.Helper()
	v, err := hydrate.DecodeJSON(data)
	if err != nil {
		tb.Fatalf("decode failed: %v", err)
	}
	return v
}

// ---- Micro benchmarks (single item) ----

func Benchmark_DecodeJSON_Item(b *testing.B) {
	data := itemJSON(1, 12)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		if _, err := hydrate.DecodeJSON(data); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Hydrate_Item(b *testing.B) {
	base := mustDecode(b, baseJSON(12))
	item := mustDecode(b, itemJSON(1, 12))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := hydrate.Hydrate(base, item); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_HydrateShared_Item(b *testing.B) {
	base := mustDecode(b, baseJSON(12))
	item := mustDecode(b, itemJSON(1, 12))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := hydrate.HydrateShared(base, item); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_EncodeJSON_Item(b *testing.B) {
	base := mustDecode(b, baseJSON(12))
	out, err := hydrate.Hydrate(base, mustDecode(b, itemJSON(1, 12)))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if err := hydrate.EncodeJSON(io.Discard, out); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- Macro benchmarks (streams) ----

const (
	streamItems  = 5000
	streamAssets = 12
)

func benchmarkStream(b *testing.B, data []byte, workers int) {
	ctx := context.Background()
	bases := memory.New()
	if err := bases.PutBase(ctx, "landsat", mustDecode(b, baseJSON(streamAssets))); err != nil {
		b.Fatal(err)
	}
	h := catalog.New(bases, catalog.WithWorkers(workers))
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		if _, err := h.HydrateStream(ctx, bytes.NewReader(data), io.Discard); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_HydrateStream_NDJSON(b *testing.B) {
	data := generateNDJSON(streamItems, streamAssets)
	for _, w := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("workers=%d", w), func(b *testing.B) { benchmarkStream(b, data, w) })
	}
}

func Benchmark_HydrateStream_Array(b *testing.B) {
	data := generateArray(streamItems, streamAssets)
	for _, w := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", w), func(b *testing.B) { benchmarkStream(b, data, w) })
	}
}

func Benchmark_DecodeEach_HugeArray(b *testing.B) {
	ctx := context.Background()
	data := generateArray(streamItems, streamAssets)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		err := hydrate.DecodeEach(ctx, hydrate.JSONBytes(data), func(int, hydrate.Value) error { return nil })
		if err != nil {
			b.Fatal(err)
		}
	}
}

func TestGeneratedStreamHydrates(t *testing.T) {
	base := mustDecode(t, baseJSON(2))
	got, err := hydrate.Hydrate(base, mustDecode(t, itemJSON(7, 2)))
	if err != nil {
		t.Fatal(err)
	}
	o, _ := got.AsObject()
	if o.Has("stac_extensions") {
		t.Fatalf("tombstoned key survived: %s", got)
	}
	if v, _ := o.Get("type"); v.String() != `"Feature"` {
		t.Fatalf("base key not filled: %s", got)
	}
}

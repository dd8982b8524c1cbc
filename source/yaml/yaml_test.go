package yaml_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stac-utils/hydrate"
	"github.com/stac-utils/hydrate/source/yaml"
)

func TestDecode_PreservesOrderAndScalars(t *testing.T) {
	src := `
z: 1
a:
  y: 1.50
  n: ~
  b: true
  hex: 0x10
  s: "007"
list: [x, 2.5e3, null]
`
	v, err := yaml.Decode([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"z":1,"a":{"y":1.50,"n":null,"b":true,"hex":16,"s":"007"},"list":["x",2.5e3,null]}`
	if got := v.String(); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestDecode_DuplicateKey(t *testing.T) {
	_, err := yaml.Decode([]byte("a: 1\nb:\n  c: 1\n  c: 2\n"))
	var dup *yaml.DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateKeyError, got %v", err)
	}
	if dup.Key != "c" || dup.FirstLine != 3 || dup.Line != 4 {
		t.Fatalf("got %+v", dup)
	}
}

func TestDecode_Aliases(t *testing.T) {
	v, err := yaml.Decode([]byte("base: &b {x: 1}\ncopy: *b\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := v.String(); got != `{"base":{"x":1},"copy":{"x":1}}` {
		t.Fatalf("got %s", got)
	}
}

func TestDecode_RejectsMergeKeysAndNaN(t *testing.T) {
	for _, src := range []string{
		"base: &b {x: 1}\nitem:\n  <<: *b\n  y: 2\n",
		"v: .nan\n",
		"v: -.inf\n",
	} {
		if _, err := yaml.Decode([]byte(src)); err == nil {
			t.Fatalf("%q: expected error", src)
		}
	}
}

func TestReader_MultipleDocuments(t *testing.T) {
	r := yaml.NewReader(strings.NewReader("a: 1\n---\n- 2\n---\n"))
	docs, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) < 2 || docs[0].String() != `{"a":1}` || docs[1].String() != `[2]` {
		t.Fatalf("docs=%v", docs)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestDecode_Empty(t *testing.T) {
	if _, err := yaml.Decode(nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	in, err := hydrate.DecodeJSON([]byte(`{"type":"Feature","id":"007","props":{"n":1.5,"ok":false,"x":null},"coords":[[1,2],[3,4]],"e":{},"t":"true"}`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := yaml.Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	back, err := yaml.Decode(out)
	if err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if !back.Equal(in) {
		t.Fatalf("round trip:\n%s\ngot %s", out, back)
	}
}

func TestDecode_HydratesLikeJSON(t *testing.T) {
	base, err := yaml.Decode([]byte("type: Feature\nassets:\n  thumb: {roles: [thumbnail], type: image/png}\n"))
	if err != nil {
		t.Fatal(err)
	}
	item, err := hydrate.DecodeJSON([]byte(`{"id":"x","assets":{"thumb":{"href":"t.png"}}}`))
	if err != nil {
		t.Fatal(err)
	}
	got, err := hydrate.Hydrate(base, item)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":"x","assets":{"thumb":{"href":"t.png","roles":["thumbnail"],"type":"image/png"}},"type":"Feature"}`
	if got.String() != want {
		t.Fatalf("got %s", got)
	}
}

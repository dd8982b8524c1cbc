package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/stac-utils/hydrate"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", "type: Feature\nassets:\n  a: {roles: [data]}\n")
	item := writeFile(t, dir, "item.json", `{"id":"x","assets":{"a":{"href":"a.tif"}},"type":"`+hydrate.MagicMarker+`"}`)

	out, err := run(t, "", "merge", "--base", base, "--item", item)
	if err != nil {
		t.Fatal(err)
	}
	if out != `{"id":"x","assets":{"a":{"href":"a.tif","roles":["data"]}}}`+"\n" {
		t.Fatalf("got %s", out)
	}
}

func TestMerge_StdinAndYAMLOutput(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.json", `{"a":1,"b":{"c":2}}`)
	out, err := run(t, `{"b":{"d":3}}`, "merge", "--base", base, "--format", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	if out != "b:\n  d: 3\n  c: 2\na: 1\n" {
		t.Fatalf("got %q", out)
	}
}

func TestMerge_TypeMismatch(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.json", `{"a":{"x":1}}`)
	_, err := run(t, `{"a":[1]}`, "merge", "--base", base)
	if !errors.Is(err, hydrate.ErrTypeMismatch) {
		t.Fatalf("got %v", err)
	}
}

func TestMerge_MaxDepth(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.json", `{}`)
	_, err := run(t, `{"a":{"b":{"c":{}}}}`, "merge", "--base", base, "--max-depth", "2")
	if iss, ok := hydrate.AsIssues(err); !ok || iss[0].Code != hydrate.CodeMaxDepth {
		t.Fatalf("got %v", err)
	}
}

func TestBatch_BasesDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "naip.json", `{"type":"Feature","properties":{"gsd":0.6}}`)
	writeFile(t, dir, "landsat.yml", "type: Feature\nplatform: landsat-8\n")
	writeFile(t, dir, "README.md", "ignored")

	in := `{"id":"a","collection":"naip"}` + "\n\n" + `{"id":"b","collection":"landsat"}` + "\n"
	out, err := run(t, in, "batch", "--bases", dir, "--workers", "3")
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":"a","collection":"naip","type":"Feature","properties":{"gsd":0.6}}` + "\n" +
		`{"id":"b","collection":"landsat","type":"Feature","platform":"landsat-8"}` + "\n"
	if out != want {
		t.Fatalf("got  %s\nwant %s", out, want)
	}
}

func TestBatch_NeedsBases(t *testing.T) {
	t.Setenv(redisAddrEnv, "")
	if _, err := run(t, "", "batch"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPutBaseThenBatchFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()
	base := writeFile(t, dir, "base.json", `{"type":"Feature","links":[]}`)

	if _, err := run(t, "", "put-base", "--redis-addr", mr.Addr(), "--collection", "c1", "--file", base, "--compress"); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("hydrate:base:c1") {
		t.Fatalf("base not stored")
	}

	t.Setenv(redisAddrEnv, mr.Addr())
	out, err := run(t, `[{"id":"a","collection":"c1"}]`, "batch")
	if err != nil {
		t.Fatal(err)
	}
	if out != `[{"id":"a","collection":"c1","type":"Feature","links":[]}]`+"\n" {
		t.Fatalf("got %s", out)
	}
}

func TestConfigFileProvidesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "naip.json", `{"type":"Feature"}`)
	cfg := writeFile(t, dir, "hydrate.yaml", "log_level: debug\nbatch:\n  bases: "+dir+"\n  collection_key: coll\n  allow_orphans: true\n")

	out, err := run(t, `{"coll":"naip"}`+"\n"+`{"id":"orphan"}`+"\n", "batch", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if out != `{"coll":"naip","type":"Feature"}`+"\n"+`{"id":"orphan"}`+"\n" {
		t.Fatalf("got %s", out)
	}

	// command-line flags win over the file
	_, err = run(t, `{"id":"orphan"}`+"\n", "batch", "--config", cfg, "--allow-orphans=false")
	if err == nil {
		t.Fatalf("expected orphan error")
	}
}

func TestConfigFileRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "bad.yaml", "log_levle: debug\n")
	if _, err := run(t, "", "merge", "--base", cfg, "--config", cfg); err == nil {
		t.Fatalf("expected config error")
	}
}

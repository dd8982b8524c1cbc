package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stac-utils/hydrate"
	"github.com/stac-utils/hydrate/source/yaml"
	"github.com/stac-utils/hydrate/store/memory"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// readDocument loads one document from path, or stdin for "-". Files ending
// in .yaml or .yml are read as YAML, everything else as JSON.
func readDocument(ctx context.Context, cmd *cobra.Command, path string, opt hydrate.DecodeOpt) (hydrate.Value, error) {
	if path == "-" {
		return hydrate.DecodeJSONReader(ctx, cmd.InOrStdin(), opt)
	}
	f, err := os.Open(path)
	if err != nil {
		return hydrate.Value{}, err
	}
	defer f.Close()

	if isYAML(path) {
		r := io.Reader(f)
		if opt.MaxBytes > 0 {
			r = io.LimitReader(f, opt.MaxBytes+1)
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return hydrate.Value{}, err
		}
		if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
			return hydrate.Value{}, fmt.Errorf("%s: larger than %d bytes", path, opt.MaxBytes)
		}
		v, err := yaml.Decode(data)
		if err != nil {
			return hydrate.Value{}, fmt.Errorf("%s: %w", path, err)
		}
		return v, nil
	}
	v, err := hydrate.DecodeJSONReader(ctx, f, opt)
	if err != nil {
		return hydrate.Value{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func writeDocument(w io.Writer, v hydrate.Value, format string) error {
	switch format {
	case "json", "":
		if err := hydrate.EncodeJSON(w, v); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	case "yaml":
		data, err := yaml.Encode(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// loadBaseDir reads every <collection>.json, .yaml or .yml file in dir into a
// memory store.
func loadBaseDir(ctx context.Context, cmd *cobra.Command, dir string, opt hydrate.DecodeOpt) (*memory.Store, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("read bases: %w", err)
	}
	s := memory.New()
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if !isYAML(name) && strings.ToLower(ext) != ".json" {
			continue
		}
		collection := strings.TrimSuffix(name, ext)
		base, err := readDocument(ctx, cmd, filepath.Join(dir, name), opt)
		if err != nil {
			return nil, 0, err
		}
		if err := s.PutBase(ctx, collection, base); err != nil {
			return nil, 0, err
		}
		n++
	}
	return s, n, nil
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

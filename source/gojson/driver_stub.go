//go:build !gojson

package gojson

import (
	"io"

	"github.com/stac-utils/hydrate"
	jsonsrc "github.com/stac-utils/hydrate/source/json"
)

// Driver returns a stand-in driver when the gojson build tag is not enabled.
// It delegates to the encoding/json-based source directly to avoid recursion.
func Driver() hydrate.JSONDriver { return stub{} }

type stub struct{}

func (stub) NewReader(r io.Reader) hydrate.Source { return hydrate.SourceFromEngine(jsonsrc.NewReader(r)) }
func (stub) NewBytes(b []byte) hydrate.Source { return hydrate.SourceFromEngine(jsonsrc.NewBytes(b)) }
func (stub) Name() string { return "encoding/json (gojson stub)" }

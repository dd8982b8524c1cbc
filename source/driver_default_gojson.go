// Package source installs the go-json driver as the default JSON driver when
// imported for side effects. Build with -tags gojson to get the real go-json
// decoder; otherwise the encoding/json stand-in is installed.
package source

import (
	"github.com/stac-utils/hydrate"
	drvgojson "github.com/stac-utils/hydrate/source/gojson"
)

// init in a separate package to avoid import cycle in root.
func init() { hydrate.SetJSONDriver(drvgojson.Driver()) }

//go:build gojson

package hydrate_test

import (
	"github.com/stac-utils/hydrate"
	drv "github.com/stac-utils/hydrate/source/gojson"
)

func init() {
	hydrate.SetJSONDriver(drv.Driver())
}

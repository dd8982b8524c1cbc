// Package hydrate reconstructs full documents from sparse "item" documents
// and the shared "base" (template) documents they were derived from.
//
// A catalog stores only what differs between each record and its
// collection's base. Reading a record back means merging item-over-base:
//
//   - Every position present in base is filled in wherever the item has no data.
//   - Anything the item already specifies wins; scalars are never merged.
//   - Arrays merge positionally and are never extended to base's length.
//   - An object member whose value is MagicMarker removes that key from the
//     result even though base defines it.
//
// Design policy:
//   - Keep the public API (Value, Hydrate, decoding and encoding) in the root
//     package; token enforcement lives under internal/engine.
//   - JSON drivers live under source/, YAML under source/yaml.
//   - Persistence of base documents lives under store/, batch hydration under
//     catalog/, and the CLI under cmd/hydrate.
//
// Typical usage:
//
//	base, err := hydrate.DecodeJSON(baseJSON)
//	item, err := hydrate.DecodeJSON(itemJSON, hydrate.DecodeOpt{MaxDepth: 64})
//	full, err := hydrate.Hydrate(base, item)
//	out, err := full.MarshalJSON()
package hydrate

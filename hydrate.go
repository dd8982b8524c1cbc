package hydrate

// MagicMarker is the reserved string that, as the value of an item object
// member, removes that key from the hydrated result even though the base
// defines it. It is two uncommon code points (U+1235F U+203B) so that real
// data does not collide with it.
const MagicMarker = "\U0001235F\u203B"

// Hydrate merges item over base and returns the fully populated document.
//
// The item's shape drives the walk:
//   - item object, base object: members are merged by key (see below).
//   - item array, base array: element i merges with base element i, for the
//     item's length only; base never extends the item.
//   - item object or array, base null: item is returned unchanged.
//   - item object or array, base anything else: *TypeMismatchError.
//   - item scalar: item wins, base is not inspected.
//
// For objects, every base member missing from the item is appended after the
// item's members in base order. A member present on both sides is merged
// recursively, unless the item's value is MagicMarker, in which case the key
// is dropped. Item-only members are kept as is.
//
// Neither input is modified. Values taken from base are deep copied; item
// subtrees that pass through unchanged may be shared with the result.
// On error the zero Value is returned.
//
// Recursion depth equals the depth of item. Bound it before hydrating
// untrusted documents, for example with DecodeOpt.MaxDepth.
func Hydrate(base, item Value) (Value, error) {
	h := hydrator{adopt: Value.Clone}
	return h.run(base, item)
}

// HydrateShared is Hydrate without copying base: values taken from base are
// shared with the result. Use it only when base is discarded or never
// modified afterwards.
func HydrateShared(base, item Value) (Value, error) {
	h := hydrator{adopt: func(v Value) Value { return v }}
	return h.run(base, item)
}

type hydrator struct {
	adopt func(Value) Value
}

func (h hydrator) run(base, item Value) (Value, error) {
	v, err := h.value(base, item, rootPointer)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func (h hydrator) value(base, item Value, at *pointer) (Value, error) {
	switch item.kind {
	case KindObject:
		switch base.kind {
		case KindObject:
			return h.object(base.obj, item.obj, at)
		case KindNull:
			return item, nil
		}
		return Value{}, &TypeMismatchError{Path: at.String(), Base: base, Item: item}
	case KindArray:
		switch base.kind {
		case KindArray:
			return h.array(base.arr, item.arr, at)
		case KindNull:
			return item, nil
		}
		return Value{}, &TypeMismatchError{Path: at.String(), Base: base, Item: item}
	case KindNull, KindBool, KindNumber, KindString:
		return item, nil
	default:
		panic("hydrate: unknown value kind " + item.kind.String())
	}
}

// slot classifies an item member once so the merge never compares against
// the marker text again.
type slot uint8

const (
	slotValue slot = iota
	slotDelete
)

func slotOf(v Value) slot {
	if v.kind == KindString && v.s == MagicMarker {
		return slotDelete
	}
	return slotValue
}

func (h hydrator) object(base, item *Object, at *pointer) (Value, error) {
	merged := make([]Member, item.Len())
	copy(merged, item.members)
	var dropped []bool
	var extra []Member

	for _, bm := range base.members {
		i, ok := item.index[bm.Key]
		if !ok {
			extra = append(extra, Member{Key: bm.Key, Value: h.adopt(bm.Value)})
			continue
		}
		switch slotOf(merged[i].Value) {
		case slotDelete:
			if dropped == nil {
				dropped = make([]bool, len(merged))
			}
			dropped[i] = true
		case slotValue:
			v, err := h.value(bm.Value, merged[i].Value, at.Field(bm.Key))
			if err != nil {
				return Value{}, err
			}
			merged[i].Value = v
		}
	}

	out := newObjectCap(len(merged) + len(extra))
	for i, m := range merged {
		if dropped != nil && dropped[i] {
			continue
		}
		out.append(m.Key, m.Value)
	}
	for _, m := range extra {
		out.append(m.Key, m.Value)
	}
	return Value{kind: KindObject, obj: out}, nil
}

func (h hydrator) array(base, item []Value, at *pointer) (Value, error) {
	out := make([]Value, len(item))
	copy(out, item)
	for i := range out {
		if i >= len(base) {
			// base is exhausted; the rest of item passes through
			break
		}
		v, err := h.value(base[i], out[i], at.Index(i))
		if err != nil {
			return Value{}, err
		}
		out[i] = v
	}
	return Value{kind: KindArray, arr: out}, nil
}

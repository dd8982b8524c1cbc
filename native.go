package hydrate

import (
	"encoding/json"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/stac-utils/hydrate/i18n"
)

// FromAny converts a JSON-like Go value into a Value. Accepted inputs are nil,
// bool, string, json.Number, every int/uint/float kind, []any,
// map[string]any and Value itself. Map keys are sorted since Go maps carry no
// order. NaN, infinities and any other type yield an invalid_type issue at
// the offending path.
func FromAny(x any) (Value, error) {
	return fromAny(x, rootPointer)
}

func fromAny(x any, at *pointer) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		if !isJSONNumber(string(t)) {
			return Value{}, invalidType(at, "json.Number "+strconv.Quote(string(t)))
		}
		return Number(string(t)), nil
	case float64:
		return floatValue(t, at)
	case float32:
		return floatValue(float64(t), at)
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint8:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint16:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint32:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	case []any:
		arr := make([]Value, len(t))
		for i, e := range t {
			v, err := fromAny(e, at.Index(i))
			if err != nil {
				return Value{}, err
			}
			arr[i] = v
		}
		return Array(arr...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		o := newObjectCap(len(keys))
		for _, k := range keys {
			v, err := fromAny(t[k], at.Field(k))
			if err != nil {
				return Value{}, err
			}
			o.append(k, v)
		}
		return ObjectValue(o), nil
	default:
		return Value{}, invalidType(at, reflect.TypeOf(x).String())
	}
}

func floatValue(f float64, at *pointer) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, invalidType(at, strconv.FormatFloat(f, 'g', -1, 64))
	}
	return Float(f), nil
}

func invalidType(at *pointer, got string) error {
	p := at.String()
	return Issues{{Path: p, Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, map[string]string{"detail": got}), Offset: -1}}
}

// ToAny converts v into plain Go values: nil, bool, json.Number, string,
// []any and map[string]any. Member order is lost in the map.
func ToAny(v Value) any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return json.Number(v.s)
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = ToAny(e)
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for k, e := range v.obj.All() {
			out[k] = ToAny(e)
		}
		return out
	default:
		return nil
	}
}

// isJSONNumber reports whether s matches the JSON number grammar.
func isJSONNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

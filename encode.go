package hydrate

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"
)

// AppendJSON appends the compact JSON encoding of v to dst. Object members
// are written in insertion order.
func AppendJSON(dst []byte, v Value) []byte {
	var q stringQuoter
	return q.appendValue(dst, v)
}

// EncodeJSON writes the compact JSON encoding of v to w.
func EncodeJSON(w io.Writer, v Value) error {
	_, err := w.Write(AppendJSON(nil, v))
	return err
}

// MarshalJSON implements json.Marshaler with member order preserved.
func (v Value) MarshalJSON() ([]byte, error) { return AppendJSON(nil, v), nil }

// stringQuoter escapes strings through one reusable go-json encoder with HTML
// escaping off, so text round-trips byte for byte.
type stringQuoter struct {
	buf bytes.Buffer
	enc *gojson.Encoder
}

func (q *stringQuoter) quote(dst []byte, s string) []byte {
	if q.enc == nil {
		q.enc = gojson.NewEncoder(&q.buf)
		q.enc.SetEscapeHTML(false)
	}
	q.buf.Reset()
	if err := q.enc.Encode(s); err != nil {
		// strings always encode; keep the output well formed regardless
		return append(dst, `""`...)
	}
	return append(dst, bytes.TrimSuffix(q.buf.Bytes(), []byte{'\n'})...)
}

func (q *stringQuoter) appendValue(dst []byte, v Value) []byte {
	switch v.kind {
	case KindBool:
		if v.b {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case KindNumber:
		return append(dst, v.s...)
	case KindString:
		return q.quote(dst, v.s)
	case KindArray:
		dst = append(dst, '[')
		for i, e := range v.arr {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = q.appendValue(dst, e)
		}
		return append(dst, ']')
	case KindObject:
		dst = append(dst, '{')
		i := 0
		for k, e := range v.obj.All() {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = q.quote(dst, k)
			dst = append(dst, ':')
			dst = q.appendValue(dst, e)
			i++
		}
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

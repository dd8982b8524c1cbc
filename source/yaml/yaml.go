// Package yaml reads and writes hydrate.Value documents as YAML. Mapping order
// is preserved and duplicate keys are rejected with their positions, so YAML
// base templates behave exactly like their JSON counterparts.
package yaml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/stac-utils/hydrate"
)

// maxAliasDepth bounds alias expansion so a self-referencing anchor cannot
// recurse forever.
const maxAliasDepth = 1000

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// Reader decodes a multi-document YAML stream into Values.
type Reader struct {
	dec *yamlv3.Decoder
}

// NewReader constructs a Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: yamlv3.NewDecoder(r)}
}

// Next returns the next document. It returns io.EOF when the stream is
// exhausted. An empty document decodes to null.
func (r *Reader) Next() (hydrate.Value, error) {
	var root yamlv3.Node
	if err := r.dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return hydrate.Value{}, io.EOF
		}
		return hydrate.Value{}, err
	}
	return convert(&root, 0)
}

// ReadAll reads all documents from the stream.
func (r *Reader) ReadAll() ([]hydrate.Value, error) {
	var out []hydrate.Value
	for {
		v, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, v)
	}
}

// Decode decodes the first document in data.
func Decode(data []byte) (hydrate.Value, error) {
	v, err := NewReader(bytes.NewReader(data)).Next()
	if errors.Is(err, io.EOF) {
		return hydrate.Value{}, errors.New("yaml: no document")
	}
	return v, err
}

func convert(n *yamlv3.Node, aliases int) (hydrate.Value, error) {
	switch n.Kind {
	case yamlv3.DocumentNode:
		if len(n.Content) == 0 {
			return hydrate.Null(), nil
		}
		return convert(n.Content[0], aliases)
	case yamlv3.AliasNode:
		if aliases >= maxAliasDepth {
			return hydrate.Value{}, fmt.Errorf("yaml: alias nesting exceeds %d at %d:%d", maxAliasDepth, n.Line, n.Column)
		}
		return convert(n.Alias, aliases+1)
	case yamlv3.MappingNode:
		o := hydrate.NewObject()
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yamlv3.ScalarNode {
				return hydrate.Value{}, fmt.Errorf("yaml: non-scalar key at %d:%d", k.Line, k.Column)
			}
			if k.ShortTag() == "!!merge" {
				return hydrate.Value{}, fmt.Errorf("yaml: merge keys are not supported at %d:%d", k.Line, k.Column)
			}
			if pos, dup := first[k.Value]; dup {
				return hydrate.Value{}, &DuplicateKeyError{Key: k.Value, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[k.Value] = [2]int{k.Line, k.Column}
			val, err := convert(v, aliases)
			if err != nil {
				return hydrate.Value{}, err
			}
			o.Set(k.Value, val)
		}
		return hydrate.ObjectValue(o), nil
	case yamlv3.SequenceNode:
		arr := make([]hydrate.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := convert(c, aliases)
			if err != nil {
				return hydrate.Value{}, err
			}
			arr = append(arr, v)
		}
		return hydrate.Array(arr...), nil
	case yamlv3.ScalarNode:
		return scalar(n)
	default:
		return hydrate.Null(), nil
	}
}

func scalar(n *yamlv3.Node) (hydrate.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return hydrate.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return hydrate.Value{}, err
		}
		return hydrate.Bool(b), nil
	case "!!int", "!!float":
		// keep the literal when it is already a JSON number
		if isJSONNumber(n.Value) {
			return hydrate.Number(n.Value), nil
		}
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return hydrate.Int(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return hydrate.Value{}, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return hydrate.Value{}, fmt.Errorf("yaml: %q has no JSON representation at %d:%d", n.Value, n.Line, n.Column)
		}
		return hydrate.Float(f), nil
	default:
		return hydrate.String(n.Value), nil
	}
}

func isJSONNumber(s string) bool {
	if s == "" || !(s[0] == '-' || (s[0] >= '0' && s[0] <= '9')) {
		return false
	}
	var n json.Number
	return json.Unmarshal([]byte(s), &n) == nil
}

// Encode renders v as a YAML document, keeping member order.
func Encode(v hydrate.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toNode(v)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNode(v hydrate.Value) *yamlv3.Node {
	switch v.Kind() {
	case hydrate.KindBool:
		b, _ := v.AsBool()
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
	case hydrate.KindNumber:
		num, _ := v.AsNumber()
		tag := "!!float"
		if _, err := num.Int64(); err == nil {
			tag = "!!int"
		}
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: tag, Value: num.String()}
	case hydrate.KindString:
		s, _ := v.AsString()
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: s}
	case hydrate.KindArray:
		arr, _ := v.AsArray()
		n := &yamlv3.Node{Kind: yamlv3.SequenceNode, Tag: "!!seq"}
		for _, e := range arr {
			n.Content = append(n.Content, toNode(e))
		}
		return n
	case hydrate.KindObject:
		o, _ := v.AsObject()
		n := &yamlv3.Node{Kind: yamlv3.MappingNode, Tag: "!!map"}
		for k, e := range o.All() {
			n.Content = append(n.Content, &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: k}, toNode(e))
		}
		return n
	default:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

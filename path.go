package hydrate

import (
	"strconv"
	"strings"
)

// pointer is a lazily rendered RFC 6901 JSON Pointer. Segments link to their
// parent so descending costs one small allocation and nothing is formatted
// unless an error needs the path.
type pointer struct {
	parent *pointer
	key    string
	index  int
	field  bool
}

var rootPointer *pointer

func (p *pointer) Field(name string) *pointer {
	return &pointer{parent: p, key: name, field: true}
}

func (p *pointer) Index(i int) *pointer {
	return &pointer{parent: p, index: i}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// String renders the pointer; the root renders as "/".
func (p *pointer) String() string {
	if p == nil {
		return "/"
	}
	var parts []string
	for q := p; q != nil; q = q.parent {
		if q.field {
			parts = append(parts, pointerEscaper.Replace(q.key))
		} else {
			parts = append(parts, strconv.Itoa(q.index))
		}
	}
	b := &strings.Builder{}
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}

package engine

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

// KeyTracker tells object keys apart from string values for decoders whose
// token stream does not distinguish them (encoding/json and go-json both
// report keys as plain strings).
type KeyTracker struct {
	stack []keyFrame
}

type keyFrame struct {
	kind         containerKind
	expectingKey bool
}

// BeginObject records an opening brace.
func (t *KeyTracker) BeginObject() {
	t.stack = append(t.stack, keyFrame{kind: kindObject, expectingKey: true})
}

// BeginArray records an opening bracket.
func (t *KeyTracker) BeginArray() {
	t.stack = append(t.stack, keyFrame{kind: kindArray})
}

// End records a closing brace or bracket. The closed container is a complete
// value of its parent.
func (t *KeyTracker) End() {
	if n := len(t.stack); n > 0 {
		t.stack = t.stack[:n-1]
	}
	t.ValueDone()
}

// String classifies a string token, returning KindKey when an object expects
// a key and KindString otherwise.
func (t *KeyTracker) String() Kind {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.kind == kindObject && top.expectingKey {
			top.expectingKey = false
			return KindKey
		}
	}
	t.ValueDone()
	return KindString
}

// ValueDone records that a scalar value completed.
func (t *KeyTracker) ValueDone() {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

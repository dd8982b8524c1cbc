// Package stream exposes one element of a larger token stream as a standalone
// token source, so array members can be decoded one at a time.
package stream

import (
	"io"

	eng "github.com/stac-utils/hydrate/internal/engine"
)

// ElementSource streams the rest of the subtree opened by a token the caller
// already read from the underlying source. It returns io.EOF once the subtree
// is complete, leaving inner positioned on the token after it.
type ElementSource struct {
	inner eng.TokenSource
	depth int
}

// NewElementSource constructs an element view over the tokens that follow
// first, a token already read from inner. A scalar first token is a complete
// element, so the view is empty.
func NewElementSource(inner eng.TokenSource, first eng.Token) *ElementSource {
	p := &ElementSource{inner: inner}
	if first.Kind == eng.KindBeginObject || first.Kind == eng.KindBeginArray {
		p.depth = 1
	}
	return p
}

func (p *ElementSource) NextToken() (eng.Token, error) {
	if p.depth <= 0 {
		return eng.Token{}, io.EOF
	}
	tok, err := p.inner.NextToken()
	if err != nil {
		if err == io.EOF {
			return eng.Token{}, io.ErrUnexpectedEOF
		}
		return eng.Token{}, err
	}
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		p.depth++
	case eng.KindEndObject, eng.KindEndArray:
		p.depth--
	}
	return tok, nil
}

func (p *ElementSource) Location() int64 { return p.inner.Location() }

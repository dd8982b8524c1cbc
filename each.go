package hydrate

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/stac-utils/hydrate/i18n"
	eng "github.com/stac-utils/hydrate/internal/engine"
	"github.com/stac-utils/hydrate/internal/stream"
)

// DecodeEach decodes a top-level JSON array from src one element at a time
// and calls fn with each element's index and value. Only one element is held
// in memory at once. Limits in opts apply to the whole array, so MaxDepth
// counts the enclosing array. An error from fn stops decoding and is returned
// unchanged.
func DecodeEach(ctx context.Context, src Source, fn func(i int, v Value) error, opts ...DecodeOpt) error {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	ts := engineTokenSource(src)
	if eo := toEngineOptions(opt); eo.Enabled() {
		ts = eng.WrapWithEnforcement(ts, eo)
	}
	top := decoder{ctx: ctx, src: ts}

	tok, err := ts.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return singleIssue("/", CodeParseError, ts.Location(), map[string]string{"detail": "empty input"})
		}
		return top.issues(err)
	}
	if tok.Kind != eng.KindBeginArray {
		return Issues{{Path: "/", Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, map[string]string{"detail": "expected array"}), Offset: tok.Offset}}
	}

	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := ts.NextToken()
		if err != nil {
			return top.issues(eofIsUnexpected(err))
		}
		if tok.Kind == eng.KindEndArray {
			break
		}
		el := stream.NewElementSource(ts, tok)
		d := decoder{ctx: ctx, src: el}
		v, err := d.value(tok)
		if err != nil {
			return elementIssues(d.issues(err), i)
		}
		if err := fn(i, v); err != nil {
			return err
		}
	}

	if _, err := ts.NextToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return top.issues(err)
		}
		return singleIssue("/", CodeParseError, ts.Location(), map[string]string{"detail": "trailing data after value"})
	}
	return nil
}

// elementIssues moves root-level parse errors to the element's path.
// Enforcement issues already carry the full path.
func elementIssues(err error, i int) error {
	var iss Issues
	if !errors.As(err, &iss) {
		return err
	}
	for k := range iss {
		if iss[k].Code == CodeParseError && iss[k].Path == "/" {
			iss[k].Path = "/" + strconv.Itoa(i)
		}
	}
	return iss
}

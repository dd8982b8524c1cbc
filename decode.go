package hydrate

import (
	"context"
	"errors"
	"io"

	"github.com/stac-utils/hydrate/i18n"
	eng "github.com/stac-utils/hydrate/internal/engine"
)

// DecodeFrom consumes exactly one JSON value from src and builds a Value that
// keeps object members in input order. Options bound duplicate keys, nesting
// depth and consumed bytes while tokens stream in. Failures are Issues.
func DecodeFrom(ctx context.Context, src Source, opts ...DecodeOpt) (Value, error) {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	ts := engineTokenSource(src)
	if eo := toEngineOptions(opt); eo.Enabled() {
		ts = eng.WrapWithEnforcement(ts, eo)
	}
	d := decoder{ctx: ctx, src: ts}

	tok, err := ts.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, singleIssue("/", CodeParseError, ts.Location(), map[string]string{"detail": "empty input"})
		}
		return Value{}, d.issues(err)
	}
	v, err := d.value(tok)
	if err != nil {
		return Value{}, d.issues(err)
	}
	if _, err := ts.NextToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return Value{}, d.issues(err)
		}
		return Value{}, singleIssue("/", CodeParseError, ts.Location(), map[string]string{"detail": "trailing data after value"})
	}
	return v, nil
}

// DecodeJSON decodes one JSON document held in data.
func DecodeJSON(data []byte, opts ...DecodeOpt) (Value, error) {
	if n := len(opts); n > 0 && opts[n-1].MaxBytes > 0 && int64(len(data)) > opts[n-1].MaxBytes {
		return Value{}, singleIssue("/", CodeTruncated, opts[n-1].MaxBytes, nil)
	}
	return DecodeFrom(context.Background(), JSONBytes(data), opts...)
}

// DecodeJSONReader decodes one JSON document from r. When MaxBytes is set the
// size cap is enforced up front.
func DecodeJSONReader(ctx context.Context, r io.Reader, opts ...DecodeOpt) (Value, error) {
	if n := len(opts); n > 0 && opts[n-1].MaxBytes > 0 {
		limit := opts[n-1].MaxBytes
		data, err := io.ReadAll(io.LimitReader(r, limit+1))
		if err != nil {
			return Value{}, Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Offset: -1, Cause: err}}
		}
		if int64(len(data)) > limit {
			return Value{}, singleIssue("/", CodeTruncated, limit, nil)
		}
		return DecodeFrom(ctx, JSONBytes(data), opts...)
	}
	return DecodeFrom(ctx, JSONReader(r), opts...)
}

// UnmarshalJSON implements json.Unmarshaler with member order preserved. It
// always uses the encoding/json driver since the caller has already
// validated data.
func (v *Value) UnmarshalJSON(data []byte) error {
	nv, err := DecodeFrom(context.Background(), defaultJSONDriver{}.NewBytes(data))
	if err != nil {
		return err
	}
	*v = nv
	return nil
}

func toEngineOptions(opt DecodeOpt) eng.EnforceOptions {
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
	}
	if sink := opt.IssueSink; sink != nil && opt.OnDuplicateKey == Warn {
		eo.IssueSink = func(si eng.SimpleIssue) {
			if si.Code == CodeDuplicateKey {
				sink(fromEngineIssue(si))
			}
		}
	}
	return eo
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func fromEngineIssue(si eng.SimpleIssue) Issue {
	return Issue{Path: si.Path, Code: si.Code, Message: i18n.T(si.Code, map[string]string{"detail": si.Message}), Offset: si.Offset}
}

type decoder struct {
	ctx context.Context
	src eng.TokenSource
}

func (d *decoder) value(tok eng.Token) (Value, error) {
	switch tok.Kind {
	case eng.KindBeginObject:
		if err := d.ctx.Err(); err != nil {
			return Value{}, err
		}
		return d.object()
	case eng.KindBeginArray:
		if err := d.ctx.Err(); err != nil {
			return Value{}, err
		}
		return d.array()
	case eng.KindString:
		return String(tok.String), nil
	case eng.KindNumber:
		return Number(tok.Number), nil
	case eng.KindBool:
		return Bool(tok.Bool), nil
	case eng.KindNull:
		return Null(), nil
	default:
		return Value{}, io.ErrUnexpectedEOF
	}
}

func (d *decoder) object() (Value, error) {
	o := NewObject()
	for {
		tok, err := d.src.NextToken()
		if err != nil {
			return Value{}, eofIsUnexpected(err)
		}
		if tok.Kind == eng.KindEndObject {
			return ObjectValue(o), nil
		}
		if tok.Kind != eng.KindKey {
			return Value{}, io.ErrUnexpectedEOF
		}
		vt, err := d.src.NextToken()
		if err != nil {
			return Value{}, eofIsUnexpected(err)
		}
		v, err := d.value(vt)
		if err != nil {
			return Value{}, err
		}
		o.Set(tok.String, v)
	}
}

func (d *decoder) array() (Value, error) {
	arr := []Value{}
	for {
		tok, err := d.src.NextToken()
		if err != nil {
			return Value{}, eofIsUnexpected(err)
		}
		if tok.Kind == eng.KindEndArray {
			return Array(arr...), nil
		}
		v, err := d.value(tok)
		if err != nil {
			return Value{}, err
		}
		arr = append(arr, v)
	}
}

func eofIsUnexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func (d *decoder) issues(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		is := fromEngineIssue(ie.SimpleIssue)
		is.Cause = err
		return Issues{is}
	}
	iss := singleIssue("/", CodeParseError, d.src.Location(), map[string]string{"detail": err.Error()})
	iss[0].Cause = err
	return iss
}

package hydrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stac-utils/hydrate/i18n"
)

// Issue codes.
const (
	CodeTypeMismatch = "type_mismatch"
	CodeInvalidType  = "invalid_type"
	CodeDuplicateKey = "duplicate_key"
	CodeMaxDepth     = "max_depth"
	CodeParseError   = "parse_error"
	CodeTruncated    = "truncated"
)

// ErrTypeMismatch matches every *TypeMismatchError via errors.Is.
var ErrTypeMismatch = errors.New("hydrate: type mismatch")

// TypeMismatchError reports an item object or array whose base counterpart is
// neither the same container kind nor null. It aborts the whole hydration.
type TypeMismatchError struct {
	Path string // JSON Pointer of the diverging position ("/" for the root).
	Base Value
	Item Value
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("hydrate: type mismatch at %s: base is %s, item is %s", e.Path, e.Base.Kind(), e.Item.Kind())
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// Issue describes a single decoding or conversion failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /assets/0/href).
	Code    string // One of the codes listed above.
	Message string
	Offset  int64 // Byte offset in the input (-1 when unknown).
	Cause   error // Optional underlying error.
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. duplicate_key at /assets/thumbnail
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, " (%s)", it.Message)
		}
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is sees through an Issues value.
func (iss Issues) Unwrap() []error {
	var errs []error
	for _, it := range iss {
		if it.Cause != nil {
			errs = append(errs, it.Cause)
		}
	}
	return errs
}

// AsIssues projects err onto Issues. Issues values are returned as is; a
// *TypeMismatchError becomes a single type_mismatch issue.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var tm *TypeMismatchError
	if errors.As(err, &tm) {
		return Issues{{
			Path:    tm.Path,
			Code:    CodeTypeMismatch,
			Message: i18n.T(CodeTypeMismatch, map[string]string{"base": tm.Base.Kind().String(), "item": tm.Item.Kind().String()}),
			Offset:  -1,
			Cause:   tm,
		}}, true
	}
	return nil, false
}

func singleIssue(path, code string, offset int64, data map[string]string) Issues {
	if path == "" {
		path = "/"
	}
	return Issues{{Path: path, Code: code, Message: i18n.T(code, data), Offset: offset}}
}

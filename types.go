package hydrate

// Severity expresses how a non-fatal input anomaly is treated.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DecodeOpt bounds and tunes decoding of untrusted documents.
type DecodeOpt struct {
	// OnDuplicateKey decides what a repeated object key does. With Ignore and
	// Warn the last value wins at the first key's position.
	OnDuplicateKey Severity
	// MaxDepth caps container nesting; 0 disables the check. Hydration
	// recurses once per level of the item, so this is the knob that keeps
	// hostile documents from exhausting the stack.
	MaxDepth int
	// MaxBytes caps consumed input; 0 disables the check.
	MaxBytes int64
	// IssueSink receives non-fatal issues (duplicate keys under Warn).
	IssueSink func(Issue)
}

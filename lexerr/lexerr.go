// Package lexerr defines the error and diagnostic vocabulary shared by every
// stage of the Lex parsing pipeline. Each concern gets its own error type,
// following the same one-type-per-concern layout as the teacher's
// internal/specterrs package.
package lexerr

import "fmt"

// Severity classifies a diagnostic by increasing seriousness, per the
// escalation ladder in the design notes: hint, warning, structural error,
// fatal error.
type Severity uint8

const (
	// Hint is non-fatal, informational (e.g. a single-item list).
	Hint Severity = iota
	// Warning flags a recoverable defect (broken reference, stray dedent).
	Warning
	// Structural marks a local parse failure recovered by falling back to
	// another grammar pattern.
	Structural
	// Fatal aborts the pipeline; reserved for internal invariant violations.
	Fatal
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case Hint:
		return "hint"
	case Warning:
		return "warning"
	case Structural:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Range is a half-open byte interval [Start, End) into the source text.
type Range struct {
	Start int
	End   int
}

// TokenError reports a lexical failure at a specific byte range: invalid
// indentation shape, an unmatched dedent, or a byte sequence the tokenizer
// could not classify.
type TokenError struct {
	Range   Range
	Message string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token error at %d..%d: %s", e.Range.Start, e.Range.End, e.Message)
}

// StructuralError reports a grammar- or tree-shape failure: an unmatched
// indent, a malformed annotation header, a verbatim block with no closing
// annotation. Structural errors are locally recovered where possible; see
// lexerr.Diagnostic for the surfaced report.
type StructuralError struct {
	Range   Range
	Message string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error at %d..%d: %s", e.Range.Start, e.Range.End, e.Message)
}

// FatalError marks an internal invariant violation (token byte ranges out of
// order, a stage contract broken). Fatal errors abort the pipeline.
type FatalError struct {
	Stage   string
	Range   Range
	Message string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal error in stage %q at %d..%d: %s", e.Stage, e.Range.Start, e.Range.End, e.Message)
}

// StageError wraps an error produced by a composed pipeline stage so callers
// can tell which stage produced it (§6 "Errors").
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Diagnostic is a single post-parse finding produced by lex/query
// (link discovery's sibling, the diagnostics walk): a severity, a byte
// range, and a message.
type Diagnostic struct {
	Severity Severity
	Range    Range
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at %d..%d: %s", d.Severity, d.Range.Start, d.Range.End, d.Message)
}

// Package token defines the atomic token vocabulary produced by lex/lexer
// and threaded, unmodified in content, through every later stage up to
// lex/ast. Every token carries the half-open byte range §3 requires.
package token

// Kind identifies the lexical category of an atomic token. Each punctuation
// character gets its own kind, mirroring the teacher's markdown.TokenType:
// fine-grained tokens give later stages maximum flexibility for
// classification and error recovery.
type Kind uint8

const (
	// EOF signals end of input. Start == End == len(source).
	EOF Kind = iota
	// Terminator represents a line ending (\n, \r\n, or a lone \r); Text
	// keeps the original bytes.
	Terminator
	// Whitespace represents contiguous spaces that are not leading
	// indentation (§4.1).
	Whitespace
	// Indentation represents a leading-indent run recognized as exactly one
	// four-space block or one tab.
	Indentation
	// LexMarker represents the two-colon sentinel "::".
	LexMarker
	// Text represents an opaque run of non-delimiter, non-whitespace bytes.
	Text
	// Number represents a run of decimal digits.
	Number
	// Dash represents a single '-'.
	Dash
	// Period represents a single '.'.
	Period
	// ParenOpen represents a single '('.
	ParenOpen
	// ParenClose represents a single ')'.
	ParenClose
	// Colon represents a single ':' (not part of a LexMarker pair).
	Colon
	// Comma represents a single ','.
	Comma
	// Quote represents a single '"'.
	Quote
	// Equals represents a single '='.
	Equals
	// TerminalPunct represents one of the closed set of end-of-sentence
	// punctuation marks recognized across scripts (see lexer.IsTerminalPunct).
	TerminalPunct
	// BlankLine is emitted by the indentation pass (§4.2) for each blank
	// physical line, i.e. a terminator that follows another with at most
	// whitespace between them. Its Text is that line's raw bytes,
	// whitespace and terminator included.
	BlankLine
	// Indent is synthetic: emitted by the indentation pass when the level
	// increases. It carries the Indentation tokens it replaced so that
	// byte-range recovery stays lossless (§4.2).
	Indent
	// Dedent is synthetic: emitted by the indentation pass when the level
	// decreases. It carries no children.
	Dedent
)

// String returns a human-readable name for the token kind.
//
//nolint:revive // cyclomatic - switch cases are simple string returns
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Terminator:
		return "Terminator"
	case Whitespace:
		return "Whitespace"
	case Indentation:
		return "Indentation"
	case LexMarker:
		return "LexMarker"
	case Text:
		return "Text"
	case Number:
		return "Number"
	case Dash:
		return "Dash"
	case Period:
		return "Period"
	case ParenOpen:
		return "ParenOpen"
	case ParenClose:
		return "ParenClose"
	case Colon:
		return "Colon"
	case Comma:
		return "Comma"
	case Quote:
		return "Quote"
	case Equals:
		return "Equals"
	case TerminalPunct:
		return "TerminalPunct"
	case BlankLine:
		return "BlankLine"
	case Indent:
		return "Indent"
	case Dedent:
		return "Dedent"
	default:
		return "Unknown"
	}
}

// Range is the half-open byte interval [Start, End) a token spans.
type Range struct {
	Start int
	End   int
}

// Len returns the byte length of the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Union returns the smallest range containing both r and other. A zero
// range (0, 0) on either side is treated as absent per the synthetic-node
// exclusion in §3's containment invariant.
func (r Range) Union(other Range) Range {
	if r == (Range{}) {
		return other
	}
	if other == (Range{}) {
		return r
	}
	start := r.Start
	if other.Start < start {
		start = other.Start
	}
	end := r.End
	if other.End > end {
		end = other.End
	}

	return Range{Start: start, End: end}
}

// Token is a single atomic or synthetic lexical unit.
type Token struct {
	Kind  Kind
	Range Range

	// Text is a zero-copy view into the source for this token. Synthetic
	// tokens (BlankLine, Indent, Dedent) may leave this nil.
	Text []byte

	// Children holds the original tokens a synthetic token replaced: the
	// Indentation tokens of an Indent, or the raw tokens of a BlankLine's
	// line. Empty for every other kind.
	Children []Token
}

// IsSynthetic reports whether this token was produced by the indentation
// pass rather than the raw tokenizer.
func (t Token) IsSynthetic() bool {
	return t.Kind == Indent || t.Kind == Dedent || t.Kind == BlankLine
}

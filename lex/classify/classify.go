// Package classify implements §4.3: it groups the indentation-pass token
// stream into line tokens and assigns each one a LineType, then runs the
// dialog reclassification post-pass.
package classify

import (
	"github.com/lex-fmt/core-sub003/lex/lexer"
	"github.com/lex-fmt/core-sub003/lex/token"
)

// LineType is the closed enumeration a classified line is tagged with
// (§3 "Line token").
type LineType uint8

const (
	// Blank is an all-whitespace/indentation/blank-line line.
	Blank LineType = iota
	// AnnotationStart is a "::" header opening an annotation.
	AnnotationStart
	// AnnotationEnd is a lone "::" closing marker.
	AnnotationEnd
	// Data names raw verbatim content lines. Neither the classifier nor
	// lex/grammar assigns it: verbatim content lines keep the type the
	// classifier gave them.
	Data
	// Subject is a line ending in a colon.
	Subject
	// List is a line starting with a list-item marker.
	List
	// SubjectOrListItem starts with a list marker and ends with a colon.
	SubjectOrListItem
	// Paragraph is ordinary prose.
	Paragraph
	// Dialog is a List line reclassified by the dialog post-pass (§4.3).
	Dialog
	// Indent is a structural pass-through for a single Indent token.
	Indent
	// Dedent is a structural pass-through for a single Dedent token.
	Dedent
	// DocumentStart is the synthetic marker inserted by lex/linetree
	// (§4.4); classify never produces it directly but defines the tag so
	// later stages share one LineType space.
	DocumentStart
)

// String returns a human-readable name for the line type.
//
//nolint:revive // cyclomatic - switch cases are simple string returns
func (t LineType) String() string {
	switch t {
	case Blank:
		return "blank"
	case AnnotationStart:
		return "annotation-start"
	case AnnotationEnd:
		return "annotation-end"
	case Data:
		return "data"
	case Subject:
		return "subject"
	case List:
		return "list"
	case SubjectOrListItem:
		return "subject-or-list-item"
	case Paragraph:
		return "paragraph"
	case Dialog:
		return "dialog"
	case Indent:
		return "indent"
	case Dedent:
		return "dedent"
	case DocumentStart:
		return "document-start"
	default:
		return "unknown"
	}
}

// Line is a (source_tokens, line_type) record (§3 "Line token").
type Line struct {
	Tokens []token.Token
	Type   LineType
}

// Range returns the line's overall byte range, the union of its tokens.
func (l Line) Range() token.Range {
	var r token.Range
	for _, t := range l.Tokens {
		r = r.Union(t.Range)
	}

	return r
}

// NonWhitespace returns the line's tokens with Whitespace/Indentation
// removed, preserving order. Several classification rules and the dialog
// post-pass operate on this filtered view.
func (l Line) NonWhitespace() []token.Token {
	var out []token.Token
	for _, t := range l.Tokens {
		if t.Kind == token.Whitespace || t.Kind == token.Indentation {
			continue
		}
		out = append(out, t)
	}

	return out
}

// Run groups a flat indentation-pass token stream into classified line
// tokens, then applies the dialog post-pass.
func Run(toks []token.Token) []Line {
	lines := split(toks)
	for i := range lines {
		lines[i].Type = classify(lines[i])
	}
	applyDialog(lines)

	return lines
}

// split breaks the flat stream into maximal runs up to and including the
// next Terminator or BlankLine token, with each Indent/Dedent token forming its own line
// (§4.3 "Contract").
func split(toks []token.Token) []Line {
	var lines []Line
	var cur []token.Token
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, Line{Tokens: cur})
			cur = nil
		}
	}
	for _, t := range toks {
		switch t.Kind {
		case token.EOF:
			flush()
		case token.Indent, token.Dedent:
			flush()
			lines = append(lines, Line{Tokens: []token.Token{t}})
		case token.BlankLine:
			cur = append(cur, t)
			flush()
		case token.Terminator:
			cur = append(cur, t)
			flush()
		default:
			cur = append(cur, t)
		}
	}
	flush()

	return lines
}

func classify(l Line) LineType {
	switch l.Tokens[0].Kind {
	case token.Indent:
		return Indent
	case token.Dedent:
		return Dedent
	default:
	}

	nw := l.NonWhitespace()

	if isBlank(nw) {
		return Blank
	}
	if isAnnotationEnd(nw) {
		return AnnotationEnd
	}
	if isAnnotationStart(nw) {
		return AnnotationStart
	}
	if isListMarker(withoutIndent(l.Tokens)) {
		if endsWithColon(nw) {
			return SubjectOrListItem
		}

		return List
	}
	if endsWithColon(nw) {
		return Subject
	}

	return Paragraph
}

func isBlank(nw []token.Token) bool {
	for _, t := range nw {
		if t.Kind != token.BlankLine && t.Kind != token.Terminator {
			return false
		}
	}

	return true
}

func isAnnotationEnd(nw []token.Token) bool {
	markers := 0
	for _, t := range nw {
		if t.Kind == token.Terminator {
			continue
		}
		if t.Kind != token.LexMarker {
			return false
		}
		markers++
	}

	return markers == 1
}

// isAnnotationStart recognizes "Starts with LexMarker, followed by
// whitespace, contains at least one further LexMarker, and has at least a
// label or a parameter between them" (§4.3 rule 3). The body between the
// opening and closing marker must be non-empty.
func isAnnotationStart(nw []token.Token) bool {
	if len(nw) == 0 || nw[0].Kind != token.LexMarker {
		return false
	}
	secondMarker := -1
	for i := 1; i < len(nw); i++ {
		if nw[i].Kind == token.LexMarker {
			secondMarker = i

			break
		}
	}
	if secondMarker == -1 {
		return false
	}
	for i := 1; i < secondMarker; i++ {
		if nw[i].Kind != token.Terminator {
			return true
		}
	}

	return false
}

// withoutIndent strips only the leading Indentation tokens, keeping
// mid-line Whitespace tokens so list-marker matching can verify the marker
// is "followed by whitespace" per §4.3.
func withoutIndent(toks []token.Token) []token.Token {
	i := 0
	for i < len(toks) && toks[i].Kind == token.Indentation {
		i++
	}

	return toks[i:]
}

// isListMarker recognizes the list-item marker shapes of §4.3: a bare dash,
// or a number, a single letter, or an uppercase Roman numeral that is
// either followed by a period or close-paren or wrapped in parens; the
// marker is then followed by whitespace. toks has leading indentation already stripped but keeps
// inline whitespace tokens.
func isListMarker(toks []token.Token) bool {
	if len(toks) == 0 {
		return false
	}
	i := 0
	wrapped := false
	if toks[i].Kind == token.ParenOpen {
		wrapped = true
		i++
	}
	if i >= len(toks) {
		return false
	}

	switch toks[i].Kind {
	case token.Dash:
		if wrapped {
			return false
		}
		i++

		return followedByWhitespace(toks, i)
	case token.Number:
		i++
	case token.Text:
		if !isSingleLetterOrRoman(toks[i].Text) {
			return false
		}
		i++
	default:
		return false
	}

	if wrapped {
		if i < len(toks) && toks[i].Kind == token.ParenClose {
			i++

			return followedByWhitespace(toks, i)
		}

		return false
	}

	if i < len(toks) && (toks[i].Kind == token.Period || toks[i].Kind == token.ParenClose) {
		i++

		return followedByWhitespace(toks, i)
	}

	return false
}

// followedByWhitespace reports whether position i in toks is at end of
// line (terminator/EOF, a degenerate but accepted marker-only line) or is
// itself a Whitespace token.
func followedByWhitespace(toks []token.Token, i int) bool {
	if i >= len(toks) {
		return true
	}

	return toks[i].Kind == token.Whitespace || toks[i].Kind == token.Terminator
}

func isSingleLetterOrRoman(b []byte) bool {
	if len(b) == 1 {
		c := b[0]

		return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	}
	for _, c := range b {
		switch c {
		case 'I', 'V', 'X', 'L', 'C', 'D', 'M':
			continue
		default:
			return false
		}
	}

	return len(b) > 0
}

func endsWithColon(nw []token.Token) bool {
	for i := len(nw) - 1; i >= 0; i-- {
		if nw[i].Kind == token.Terminator {
			continue
		}

		return nw[i].Kind == token.Colon
	}

	return false
}

// applyDialog runs the dialog post-pass (§4.3): a List line whose last two
// non-whitespace tokens are both end-punctuation becomes Dialog, and every
// following List line up to the next blank line or non-list line is also
// reclassified as Dialog.
func applyDialog(lines []Line) {
	inDialog := false
	for i := range lines {
		switch lines[i].Type {
		case List, SubjectOrListItem:
			if inDialog || isDialogStart(lines[i]) {
				lines[i].Type = Dialog
				inDialog = true
			}
		case Blank:
			inDialog = false
		default:
			inDialog = false
		}
	}
}

func isDialogStart(l Line) bool {
	nw := l.NonWhitespace()
	var filtered []token.Token
	for _, t := range nw {
		if t.Kind == token.Terminator {
			continue
		}
		filtered = append(filtered, t)
	}
	if len(filtered) < 2 {
		return false
	}
	last := filtered[len(filtered)-1]
	prev := filtered[len(filtered)-2]

	return isEndPunct(last) && isEndPunct(prev)
}

func isEndPunct(t token.Token) bool {
	if t.Kind == token.Period {
		return true
	}
	if t.Kind == token.TerminalPunct {
		return true
	}
	if t.Kind == token.Text && len(t.Text) > 0 {
		r := []rune(string(t.Text))
		if len(r) == 1 && lexer.IsTerminalPunct(r[0]) {
			return true
		}
	}

	return false
}

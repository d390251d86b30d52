// Package lexer implements §4.1 of the Lex core: a byte-level tokenizer
// that turns raw source text into a flat stream of atomic tokens with exact
// byte ranges. It mirrors the teacher's markdown.lexer in shape (a single
// forward-scanning cursor over a retained byte slice, no backtracking) but
// classifies a different, line-oriented token vocabulary.
package lexer

import (
	"unicode/utf8"

	"github.com/lex-fmt/core-sub003/lex/token"
)

const fourSpaceIndent = 4

// terminalPunct is the closed set of end-of-sentence punctuation the line
// classifier's dialog post-pass (§4.3, §9 "dialog reclassification") keys
// off. It intentionally spans scripts beyond Latin: ASCII "!?;", CJK
// full-width "。！？；、", Arabic "؟،؛", Devanagari "।॥", and Thai "ฯ๛".
var terminalPunct = map[rune]struct{}{
	'!': {}, '?': {}, ';': {},
	'。': {}, '！': {}, '？': {}, '；': {}, '、': {},
	'؟': {}, '،': {}, '؛': {},
	'।': {}, '॥': {},
	'ฯ': {}, '๛': {},
}

// IsTerminalPunct reports whether r belongs to the tokenizer's closed
// terminal-punctuation table.
func IsTerminalPunct(r rune) bool {
	_, ok := terminalPunct[r]

	return ok
}

type scanner struct {
	src  []byte
	pos  int
	toks []token.Token
}

// Tokenize converts source into a flat stream of atomic tokens covering
// every byte. The caller is responsible for ensuring source ends with a
// line terminator (§4.1); the tokenizer does not append one.
func Tokenize(source []byte) []token.Token {
	s := &scanner{src: source}
	for s.pos < len(s.src) {
		s.scanOne()
	}
	s.emit(token.EOF, s.pos, s.pos)

	return s.toks
}

func (s *scanner) emit(kind token.Kind, start, end int) {
	var text []byte
	if end > start {
		text = s.src[start:end]
	}
	s.toks = append(s.toks, token.Token{
		Kind:  kind,
		Range: token.Range{Start: start, End: end},
		Text:  text,
	})
}

func (s *scanner) atLineStart() bool {
	return s.pos == 0 || s.src[s.pos-1] == '\n'
}

func (s *scanner) scanOne() {
	if s.atLineStart() {
		if s.scanIndentation() {
			return
		}
	}

	b := s.src[s.pos]
	switch {
	case b == '\r' || b == '\n':
		s.scanTerminator()
	case b == ' ' || b == '\t':
		s.scanWhitespace()
	case b == ':':
		s.scanColonOrMarker()
	case b >= '0' && b <= '9':
		s.scanNumber()
	case b == '-':
		s.emitSingle(token.Dash)
	case b == '.':
		s.emitSingle(token.Period)
	case b == '(':
		s.emitSingle(token.ParenOpen)
	case b == ')':
		s.emitSingle(token.ParenClose)
	case b == ',':
		s.emitSingle(token.Comma)
	case b == '"':
		s.emitSingle(token.Quote)
	case b == '=':
		s.emitSingle(token.Equals)
	default:
		s.scanTextOrPunct()
	}
}

func (s *scanner) emitSingle(kind token.Kind) {
	s.emit(kind, s.pos, s.pos+1)
	s.pos++
}

// scanIndentation consumes zero or more leading-indent units (each either a
// single tab or exactly four spaces) and emits one Indentation token per
// unit (§3, §4.1). It stops at the first byte that does not start a full
// unit, leaving any partial run (e.g. 1-3 trailing spaces) for ordinary
// whitespace scanning. Returns true if at least one Indentation token was
// emitted.
func (s *scanner) scanIndentation() bool {
	emitted := false
	for s.pos < len(s.src) {
		if s.src[s.pos] == '\t' {
			s.emit(token.Indentation, s.pos, s.pos+1)
			s.pos++
			emitted = true

			continue
		}
		if s.pos+fourSpaceIndent <= len(s.src) && isSpaceRun(s.src[s.pos:s.pos+fourSpaceIndent]) {
			s.emit(token.Indentation, s.pos, s.pos+fourSpaceIndent)
			s.pos += fourSpaceIndent
			emitted = true

			continue
		}

		break
	}

	return emitted
}

func isSpaceRun(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}

	return true
}

func (s *scanner) scanWhitespace() {
	start := s.pos
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
	s.emit(token.Whitespace, start, s.pos)
}

func (s *scanner) scanTerminator() {
	start := s.pos
	if s.src[s.pos] == '\r' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n' {
		s.pos += 2
	} else {
		s.pos++
	}
	s.emit(token.Terminator, start, s.pos)
}

// scanColonOrMarker greedily matches the two-colon LexMarker sentinel,
// falling back to a single Colon token.
func (s *scanner) scanColonOrMarker() {
	if s.pos+1 < len(s.src) && s.src[s.pos+1] == ':' {
		s.emit(token.LexMarker, s.pos, s.pos+2)
		s.pos += 2

		return
	}
	s.emitSingle(token.Colon)
}

func (s *scanner) scanNumber() {
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
		s.pos++
	}
	s.emit(token.Number, start, s.pos)
}

// scanTextOrPunct decodes one rune. Runes in the terminal-punctuation table
// become their own TerminalPunct token; everything else is absorbed into a
// run of opaque Text terminated by whitespace, a terminator, or a
// recognized delimiter.
func (s *scanner) scanTextOrPunct() {
	r, size := utf8.DecodeRune(s.src[s.pos:])
	if IsTerminalPunct(r) {
		s.emit(token.TerminalPunct, s.pos, s.pos+size)
		s.pos += size

		return
	}
	s.scanText()
}

func (s *scanner) scanText() {
	start := s.pos
	for s.pos < len(s.src) {
		b := s.src[s.pos]
		if isBoundaryByte(b) {
			break
		}
		r, size := utf8.DecodeRune(s.src[s.pos:])
		if IsTerminalPunct(r) {
			break
		}
		s.pos += size
	}
	s.emit(token.Text, start, s.pos)
}

func isBoundaryByte(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', ':', '-', '.', '(', ')', ',', '"', '=':
		return true
	default:
		return b >= '0' && b <= '9'
	}
}

// Detokenize reproduces the original source exactly from a flat token
// stream, including synthetic Indent/Dedent/BlankLine tokens produced by
// lex/indent (§6 "Round-trip requirement", §8). Indent tokens are expanded
// back to their recorded Children; Dedent and EOF contribute no bytes.
func Detokenize(toks []token.Token) []byte {
	var out []byte
	for _, t := range toks {
		out = append(out, detokenizeOne(t)...)
	}

	return out
}

func detokenizeOne(t token.Token) []byte {
	switch t.Kind {
	case token.Indent:
		var out []byte
		for _, c := range t.Children {
			out = append(out, detokenizeOne(c)...)
		}

		return out
	case token.Dedent:
		return nil
	case token.BlankLine:
		return t.Text
	case token.EOF:
		return nil
	default:
		return t.Text
	}
}

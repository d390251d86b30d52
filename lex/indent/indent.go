// Package indent implements §4.2: the indentation state machine. It turns
// the raw tokenizer output into a flat token stream where indentation
// level changes have been replaced by synthetic Indent/Dedent tokens and
// consecutive blank physical lines have been collapsed into BlankLine
// tokens, so that later stages never have to recount leading whitespace.
package indent

import (
	"github.com/lex-fmt/core-sub003/lex/token"
)

// Run consumes the raw token stream from lex/lexer and returns the flat
// token stream with Indent/Dedent/BlankLine synthesis applied (§4.2). The
// error return is part of the stage contract (§6 composed-stage error
// propagation); well-formed tokenizer output never triggers it, since the
// tokenizer only ever emits Indentation tokens at line start in complete
// four-space or single-tab units, so the level count derived here can never
// go negative or skip a stack frame.
func Run(raw []token.Token) ([]token.Token, error) {
	m := &machine{raw: raw}

	return m.run()
}

type machine struct {
	raw   []token.Token
	pos   int
	stack int // current indentation depth
	out   []token.Token
}

func (m *machine) run() ([]token.Token, error) {
	for m.pos < len(m.raw) && m.raw[m.pos].Kind != token.EOF {
		line, lineEnd := m.nextLine()
		m.processLine(line)
		m.pos = lineEnd
	}

	// Flush remaining indentation at end-of-input (§4.2 Rules).
	for m.stack > 0 {
		m.out = append(m.out, token.Token{Kind: token.Dedent})
		m.stack--
	}

	// Pass through EOF.
	for m.pos < len(m.raw) {
		m.out = append(m.out, m.raw[m.pos])
		m.pos++
	}

	return m.out, nil
}

// nextLine returns the slice of raw tokens belonging to the current
// physical line (including its trailing Terminator, if any) and the index
// just past it.
func (m *machine) nextLine() ([]token.Token, int) {
	start := m.pos
	i := start
	for i < len(m.raw) && m.raw[i].Kind != token.EOF {
		if m.raw[i].Kind == token.Terminator {
			i++

			break
		}
		i++
	}

	return m.raw[start:i], i
}

func isBlankContent(line []token.Token) bool {
	for _, t := range line {
		switch t.Kind {
		case token.Whitespace, token.Indentation, token.Terminator:
			continue
		default:
			return false
		}
	}

	return true
}

func leadingIndentLevel(line []token.Token) int {
	n := 0
	for _, t := range line {
		if t.Kind != token.Indentation {
			break
		}
		n++
	}

	return n
}

func (m *machine) processLine(line []token.Token) {
	if isBlankContent(line) {
		m.emitBlankLine(line)

		return
	}

	level := leadingIndentLevel(line)
	indentToks := line[:level]
	rest := line[level:]

	switch {
	case level > m.stack:
		for i := m.stack; i < level; i++ {
			m.out = append(m.out, token.Token{
				Kind:     token.Indent,
				Range:    indentToks[i].Range,
				Children: []token.Token{indentToks[i]},
			})
		}
		m.stack = level
	case level < m.stack:
		for i := m.stack; i > level; i-- {
			m.out = append(m.out, token.Token{Kind: token.Dedent})
		}
		m.stack = level
	}

	m.out = append(m.out, rest...)
}

// emitBlankLine converts a blank physical line's Whitespace/Indentation
// tokens and trailing Terminator into a single BlankLine token. The level
// stack is left untouched (§4.2 Rules: "a blank line does not change the
// level").
func (m *machine) emitBlankLine(line []token.Token) {
	var text []byte
	for _, t := range line {
		text = append(text, t.Text...)
	}
	var rng token.Range
	if len(line) > 0 {
		rng = token.Range{Start: line[0].Range.Start, End: line[len(line)-1].Range.End}
	}
	m.out = append(m.out, token.Token{
		Kind:     token.BlankLine,
		Range:    rng,
		Text:     text,
		Children: append([]token.Token(nil), line...),
	})
}

package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lex-fmt/core-sub003/lex/lexer"
	"github.com/lex-fmt/core-sub003/lex/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}

	return out
}

func TestTokenizeSimpleSubjectLine(t *testing.T) {
	toks := lexer.Tokenize([]byte("Hello:\n"))
	assert.Equal(t, []token.Kind{token.Text, token.Colon, token.Terminator, token.EOF}, kinds(toks))
}

func TestTokenizeLexMarker(t *testing.T) {
	toks := lexer.Tokenize([]byte("::\n"))
	assert.Equal(t, []token.Kind{token.LexMarker, token.Terminator, token.EOF}, kinds(toks))
}

func TestTokenizeSingleColonIsNotMarker(t *testing.T) {
	toks := lexer.Tokenize([]byte(":x\n"))
	assert.Equal(t, token.Colon, toks[0].Kind)
}

func TestTokenizeFourSpaceIndentation(t *testing.T) {
	toks := lexer.Tokenize([]byte("    text\n"))
	assert.Equal(t, token.Indentation, toks[0].Kind)
	assert.Equal(t, 4, toks[0].Range.Len())
}

func TestTokenizeTabIndentation(t *testing.T) {
	toks := lexer.Tokenize([]byte("\ttext\n"))
	assert.Equal(t, token.Indentation, toks[0].Kind)
	assert.Equal(t, 1, toks[0].Range.Len())
}

func TestTokenizePartialIndentIsWhitespace(t *testing.T) {
	toks := lexer.Tokenize([]byte("  text\n"))
	assert.Equal(t, token.Whitespace, toks[0].Kind)
}

func TestTokenizeTerminalPunct(t *testing.T) {
	toks := lexer.Tokenize([]byte("Wait!\n"))
	assert.Contains(t, kinds(toks), token.TerminalPunct)
}

func TestIsTerminalPunctMultiScript(t *testing.T) {
	assert.True(t, lexer.IsTerminalPunct('!'))
	assert.True(t, lexer.IsTerminalPunct('。'))
	assert.True(t, lexer.IsTerminalPunct('؟'))
	assert.False(t, lexer.IsTerminalPunct('a'))
}

func TestDetokenizeRoundTrip(t *testing.T) {
	src := []byte("Session:\n\n    Body text.\n")
	toks := lexer.Tokenize(src)
	assert.Equal(t, src, lexer.Detokenize(toks))
}

func TestEOFRangeAtEndOfInput(t *testing.T) {
	src := []byte("x\n")
	toks := lexer.Tokenize(src)
	last := toks[len(toks)-1]
	assert.Equal(t, token.EOF, last.Kind)
	assert.Equal(t, len(src), last.Range.Start)
	assert.Equal(t, len(src), last.Range.End)
}

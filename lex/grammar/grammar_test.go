package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex-fmt/core-sub003/lex/classify"
	"github.com/lex-fmt/core-sub003/lex/grammar"
	"github.com/lex-fmt/core-sub003/lex/indent"
	"github.com/lex-fmt/core-sub003/lex/lexer"
	"github.com/lex-fmt/core-sub003/lex/linetree"
)

func parse(t *testing.T, src string) []*grammar.Node {
	t.Helper()
	raw := lexer.Tokenize([]byte(src))
	toks, err := indent.Run(raw)
	require.NoError(t, err)
	lines := classify.Run(toks)
	root := linetree.Build(lines)
	linetree.InsertDocumentStart(root)

	return grammar.Parse(root)
}

func kinds(nodes []*grammar.Node) []grammar.Kind {
	out := make([]grammar.Kind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind
	}

	return out
}

func TestParseEmitsDocumentMarkerFirst(t *testing.T) {
	nodes := parse(t, "Just a paragraph.\n")
	require.NotEmpty(t, nodes)
	assert.Equal(t, grammar.DocumentMarker, nodes[0].Kind)
}

func TestParseDefinitionHasNoBlankBeforeBody(t *testing.T) {
	nodes := parse(t, "Term:\n    Meaning.\n")
	assert.Contains(t, kinds(nodes), grammar.Definition)
}

func TestParseSessionHasBlankBeforeBody(t *testing.T) {
	nodes := parse(t, "Title:\n\n    Body text.\n")
	assert.Contains(t, kinds(nodes), grammar.Session)
}

func TestParseListRequiresTwoItems(t *testing.T) {
	// A root-level list must be preceded by a blank line (§4.5 pattern 4);
	// without one the lines merge into a single paragraph instead.
	nodes := parse(t, "Intro text.\n\n- one\n- two\n")
	assert.Contains(t, kinds(nodes), grammar.List)
}

func TestParseSingleListItemFallsBackToParagraph(t *testing.T) {
	nodes := parse(t, "- only one\n")
	got := kinds(nodes)
	assert.NotContains(t, got, grammar.List)
	assert.Contains(t, got, grammar.Paragraph)
}

func TestParseAnnotationSingleLine(t *testing.T) {
	nodes := parse(t, ":: note text ::\n")
	got := kinds(nodes)
	assert.True(t, containsAny(got, grammar.Annotation))
}

func TestParseBlankGroupCounted(t *testing.T) {
	nodes := parse(t, "A paragraph.\n\n\nAnother paragraph.\n")
	found := false
	for _, n := range nodes {
		if n.Kind == grammar.BlankGroup {
			found = true
			assert.Equal(t, 2, n.BlankCount)
		}
	}
	assert.True(t, found)
}

func containsAny(got []grammar.Kind, want grammar.Kind) bool {
	for _, k := range got {
		if k == want {
			return true
		}
	}

	return false
}

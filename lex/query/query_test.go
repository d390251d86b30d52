package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex-fmt/core-sub003/lex/ast"
	"github.com/lex-fmt/core-sub003/lex/classify"
	"github.com/lex-fmt/core-sub003/lex/grammar"
	"github.com/lex-fmt/core-sub003/lex/indent"
	"github.com/lex-fmt/core-sub003/lex/lexer"
	"github.com/lex-fmt/core-sub003/lex/linetree"
	"github.com/lex-fmt/core-sub003/lex/query"
	"github.com/lex-fmt/core-sub003/lexerr"
)

func build(t *testing.T, src string) *ast.Document {
	t.Helper()
	raw := lexer.Tokenize([]byte(src))
	toks, err := indent.Run(raw)
	require.NoError(t, err)
	lines := classify.Run(toks)
	root := linetree.Build(lines)
	linetree.InsertDocumentStart(root)
	nodes := grammar.Parse(root)

	return ast.Build(nodes)
}

func TestDiscoverLinksFindsURL(t *testing.T) {
	doc := build(t, "Term:\n    See [https://example.com/page] for more.\n")
	links := query.DiscoverLinks(doc)
	require.Len(t, links, 1)
	assert.Equal(t, query.LinkURL, links[0].Kind)
	assert.Equal(t, "https://example.com/page", links[0].Value)
}

func TestDiscoverLinksFindsFilePath(t *testing.T) {
	doc := build(t, "Term:\n    See [./notes.txt] for more.\n")
	links := query.DiscoverLinks(doc)
	require.Len(t, links, 1)
	assert.Equal(t, query.LinkFilePath, links[0].Kind)
}

func TestDiagnosticsFlagsBrokenReference(t *testing.T) {
	doc := build(t, "Term:\n    See [missing-label] for more.\n")
	diags := query.Diagnostics(doc)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Severity == lexerr.Warning {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDiagnosticsNoBrokenReferenceForKnownSession(t *testing.T) {
	doc := build(t, "known:\n\n    Body.\n\nTerm:\n    See [known] for more.\n")
	diags := query.Diagnostics(doc)
	for _, d := range diags {
		assert.NotContains(t, d.Message, "broken reference: known")
	}
}

func TestDiagnosticsEmptyAnnotationLabel(t *testing.T) {
	// A header with only key=value params and no bare label span leaves
	// the label empty (§4.6 "Annotation header").
	doc := build(t, ":: key=val ::\n\nTerm:\n    Body.\n")
	diags := query.Diagnostics(doc)
	found := false
	for _, d := range diags {
		if d.Message == "annotation with empty label" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLineIndexRoundTrip(t *testing.T) {
	src := []byte("line one\nline two\nline three\n")
	idx := query.NewLineIndex(src)

	pos := idx.Position(len("line one\n"))
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 1, pos.Column)

	offset := idx.Offset(2, 1)
	assert.Equal(t, len("line one\n"), offset)
}

func TestAncestorChainFindsInnermostContainer(t *testing.T) {
	src := "Title:\n\n    Body text.\n"
	doc := build(t, src)
	idx := query.NewLineIndex([]byte(src))

	chain := query.AncestorChain(doc, idx, query.Position{Line: 3, Column: 5})
	require.NotEmpty(t, chain)
	assert.Equal(t, ast.DocumentKind, chain[0])
}

package ast_test

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

func TestBuildSessionTitleStripsColon(t *testing.T) {
	doc := build(t, "Title:\n\n    Body text.\n")
	require.NotEmpty(t, doc.Root.Items)
	session, ok := doc.Root.Items[0].(*ast.Session)
	require.True(t, ok)
	assert.Equal(t, "Title", session.Title.Raw)
}

func TestBuildDefinitionSubjectStripsColon(t *testing.T) {
	doc := build(t, "Term:\n    Meaning.\n")
	def, ok := doc.Root.Items[0].(*ast.Definition)
	require.True(t, ok)
	assert.Equal(t, "Term", def.Subject.Raw)
}

func TestAttachAnnotationAttachesToFollowingSession(t *testing.T) {
	doc := build(t, ":: tag ::\nTitle:\n\n    Body text.\n")
	require.NotEmpty(t, doc.Root.Items)
	session, ok := doc.Root.Items[0].(*ast.Session)
	require.True(t, ok)
	require.Len(t, session.Annotations, 1)
	assert.Equal(t, "tag", session.Annotations[0].Label())
}

func TestAnnotationWithOwnContentStaysFreestanding(t *testing.T) {
	doc := build(t, "Intro.\n\n:: note ::\n    detail line\nTitle:\n\n    Body.\n")
	require.GreaterOrEqual(t, len(doc.Root.Items), 4)
	_, isAnnotation := doc.Root.Items[2].(*ast.Annotation)
	assert.True(t, isAnnotation)
}

func TestDocumentRootSessionHasZeroRange(t *testing.T) {
	doc := build(t, "Plain paragraph.\n")
	assert.Equal(t, 0, doc.Root.Range().Start)
	assert.Equal(t, 0, doc.Root.Range().End)
}

func TestWalkVisitsEveryNode(t *testing.T) {
	doc := build(t, "Title:\n\n    Body text.\n")
	var kinds []ast.Kind
	ast.Walk(doc, func(n ast.Node) bool {
		kinds = append(kinds, n.Kind())

		return true
	}, nil)
	assert.Contains(t, kinds, ast.DocumentKind)
	assert.Contains(t, kinds, ast.SessionKind)
}

func TestTextContentInlineIsLazyAndCached(t *testing.T) {
	doc := build(t, "Term:\n    A *bold* word.\n")
	def := doc.Root.Items[0].(*ast.Definition)
	para := def.Items[0].(*ast.Paragraph)
	line := para.Lines[0]

	first := line.Text.Inline()
	second := line.Text.Inline()
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

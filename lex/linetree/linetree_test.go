package linetree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex-fmt/core-sub003/lex/classify"
	"github.com/lex-fmt/core-sub003/lex/indent"
	"github.com/lex-fmt/core-sub003/lex/lexer"
	"github.com/lex-fmt/core-sub003/lex/linetree"
)

func build(t *testing.T, src string) *linetree.Node {
	t.Helper()
	raw := lexer.Tokenize([]byte(src))
	toks, err := indent.Run(raw)
	require.NoError(t, err)
	lines := classify.Run(toks)

	return linetree.Build(lines)
}

func TestBuildNestsIndentedChildren(t *testing.T) {
	root := build(t, "Session:\n\n    Body text.\n")
	require.Len(t, root.Children, 3)
	assert.True(t, root.Children[0].IsLeaf())
	assert.True(t, root.Children[1].IsLeaf())
	container := root.Children[2]
	assert.False(t, container.IsLeaf())
	require.Len(t, container.Children, 1)
	assert.True(t, container.Children[0].IsLeaf())
}

func TestBuildClosesUnmatchedTrailingIndent(t *testing.T) {
	raw := lexer.Tokenize([]byte("Session:\n\n    Body\n"))
	toks, err := indent.Run(raw)
	require.NoError(t, err)
	// Drop the Dedent line so the Indent has no matching close.
	var lines []classify.Line
	for _, l := range classify.Run(toks) {
		if l.Type != classify.Dedent {
			lines = append(lines, l)
		}
	}

	var root *linetree.Node
	assert.NotPanics(t, func() {
		root = linetree.Build(lines)
	})
	require.Len(t, root.Children, 3)
	container := root.Children[2]
	assert.False(t, container.IsLeaf())
	require.Len(t, container.Children, 1)
}

func TestInsertDocumentStartAtZeroWithNoMetadata(t *testing.T) {
	root := build(t, "Plain paragraph.\n")
	linetree.InsertDocumentStart(root)
	require.NotEmpty(t, root.Children)
	assert.Equal(t, classify.DocumentStart, root.Children[0].Line.Type)
}

func TestInsertDocumentStartAfterLeadingAnnotation(t *testing.T) {
	root := build(t, ":: meta ::\n\nBody paragraph.\n")
	linetree.InsertDocumentStart(root)

	markerIdx := -1
	for i, c := range root.Children {
		if c.IsLeaf() && c.Line.Type == classify.DocumentStart {
			markerIdx = i

			break
		}
	}
	require.NotEqual(t, -1, markerIdx)
	assert.Equal(t, classify.AnnotationStart, root.Children[0].Line.Type)
	assert.Greater(t, markerIdx, 0)
}

package inline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex-fmt/core-sub003/lex/inline"
)

func TestParsePlainText(t *testing.T) {
	nodes := inline.Parse("just words")
	require.Len(t, nodes, 1)
	assert.Equal(t, inline.PlainText, nodes[0].Kind)
	assert.Equal(t, "just words", nodes[0].Text)
}

func TestParseBoldNestsItalic(t *testing.T) {
	nodes := inline.Parse("a *bold _and italic_ run* b")
	require.Len(t, nodes, 3)
	assert.Equal(t, inline.Bold, nodes[1].Kind)
	require.Len(t, nodes[1].Children, 3)
	assert.Equal(t, inline.Italic, nodes[1].Children[1].Kind)
}

func TestParseCodeIsVerbatim(t *testing.T) {
	nodes := inline.Parse("see `a*b_c` here")
	require.Len(t, nodes, 3)
	assert.Equal(t, inline.Code, nodes[1].Kind)
	assert.Equal(t, "a*b_c", nodes[1].Text)
}

func TestParseUnterminatedDelimiterDegradesToPlainText(t *testing.T) {
	nodes := inline.Parse("broken *bold")
	require.Len(t, nodes, 1)
	assert.Equal(t, inline.PlainText, nodes[0].Kind)
	assert.Equal(t, "broken *bold", nodes[0].Text)
}

func TestClassifyReferenceFootnoteNumber(t *testing.T) {
	nodes := inline.Parse("see [12] there")
	ref := findReference(t, nodes)
	assert.Equal(t, inline.FootnoteNumber, ref.RefKind)
}

func TestClassifyReferenceCitation(t *testing.T) {
	nodes := inline.Parse("[@doe2020]")
	ref := findReference(t, nodes)
	assert.Equal(t, inline.CitationKeys, ref.RefKind)
	assert.Equal(t, "@doe2020", ref.RefValue)
}

func TestClassifyReferenceURL(t *testing.T) {
	nodes := inline.Parse("[https://example.com/x]")
	ref := findReference(t, nodes)
	assert.Equal(t, inline.URL, ref.RefKind)
}

func TestClassifyReferenceFilePath(t *testing.T) {
	nodes := inline.Parse("[./notes.txt]")
	ref := findReference(t, nodes)
	assert.Equal(t, inline.FilePath, ref.RefKind)
}

func TestClassifyReferenceDefaultsToFootnoteLabel(t *testing.T) {
	nodes := inline.Parse("[some-word]")
	ref := findReference(t, nodes)
	assert.Equal(t, inline.FootnoteLabel, ref.RefKind)
}

func TestParseImage(t *testing.T) {
	nodes := inline.Parse(`![alt text](https://x.example/y.png "a title")`)
	require.Len(t, nodes, 1)
	assert.Equal(t, inline.Image, nodes[0].Kind)
	assert.Equal(t, "alt text", nodes[0].Alt)
	assert.Equal(t, "https://x.example/y.png", nodes[0].Src)
	assert.Equal(t, "a title", nodes[0].Title)
}

func findReference(t *testing.T, nodes []inline.Node) inline.Node {
	t.Helper()
	for _, n := range nodes {
		if n.Kind == inline.Reference {
			return n
		}
	}
	t.Fatal("no reference node found")

	return inline.Node{}
}

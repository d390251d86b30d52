package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex-fmt/core-sub003/lex/classify"
	"github.com/lex-fmt/core-sub003/lex/indent"
	"github.com/lex-fmt/core-sub003/lex/lexer"
)

func run(t *testing.T, src string) []classify.Line {
	t.Helper()
	raw := lexer.Tokenize([]byte(src))
	toks, err := indent.Run(raw)
	require.NoError(t, err)

	return classify.Run(toks)
}

func types(lines []classify.Line) []classify.LineType {
	out := make([]classify.LineType, len(lines))
	for i, l := range lines {
		out[i] = l.Type
	}

	return out
}

func TestClassifySubjectLine(t *testing.T) {
	lines := run(t, "Title:\n")
	assert.Contains(t, types(lines), classify.Subject)
}

func TestClassifyListLine(t *testing.T) {
	lines := run(t, "- item one\n")
	assert.Contains(t, types(lines), classify.List)
}

func TestClassifySubjectOrListItem(t *testing.T) {
	lines := run(t, "- Subitem:\n")
	assert.Contains(t, types(lines), classify.SubjectOrListItem)
}

func TestClassifyAnnotationStart(t *testing.T) {
	lines := run(t, ":: note text ::\n")
	assert.Contains(t, types(lines), classify.AnnotationStart)
}

func TestClassifyAnnotationEnd(t *testing.T) {
	lines := run(t, "Subject:\n    Body\n::\n")
	assert.Contains(t, types(lines), classify.AnnotationEnd)
}

func TestClassifyParagraph(t *testing.T) {
	lines := run(t, "Just a plain sentence\n")
	assert.Contains(t, types(lines), classify.Paragraph)
}

func TestClassifyBlank(t *testing.T) {
	lines := run(t, "A\n\nB\n")
	assert.Contains(t, types(lines), classify.Blank)
}

func TestDialogPostPassReclassifiesFollowingListLines(t *testing.T) {
	lines := run(t, "- Hello there!!\n- Yes indeed.\n- Plain item\n")
	got := types(lines)
	assert.Equal(t, classify.Dialog, got[0])
	assert.Equal(t, classify.Dialog, got[1])
	assert.Equal(t, classify.Dialog, got[2])
}

func TestDialogPostPassStopsAtBlank(t *testing.T) {
	lines := run(t, "- Hello there!!\n\n- New item\n")
	got := types(lines)
	assert.Equal(t, classify.Dialog, got[0])
	assert.NotEqual(t, classify.Dialog, got[len(got)-1])
}

func TestLineRangeUnionsTokens(t *testing.T) {
	lines := run(t, "Title:\n")
	r := lines[0].Range()
	assert.Equal(t, 0, r.Start)
	assert.Greater(t, r.End, r.Start)
}

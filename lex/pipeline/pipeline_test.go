package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex-fmt/core-sub003/lex/ast"
	"github.com/lex-fmt/core-sub003/lex/pipeline"
	"github.com/lex-fmt/core-sub003/lex/token"
)

func TestConfigsRegistryHasEveryNamedConfiguration(t *testing.T) {
	want := []string{
		"default",
		"tokens-raw",
		"tokens-indentation",
		"tokens-linebased-flat",
		"tokens-linebased-tree",
		"lex-to-tag",
		"lex-to-treeviz",
	}
	for _, name := range want {
		cfg, ok := pipeline.Configs[name]
		require.True(t, ok, "missing config %q", name)
		assert.Equal(t, name, cfg.Name)
	}
}

func TestDefaultConfigProducesDocument(t *testing.T) {
	cfg := pipeline.Configs["default"]
	out, err := cfg.Run([]byte("Term:\n    Meaning.\n"))
	require.NoError(t, err)
	doc, ok := out.(*ast.Document)
	require.True(t, ok)
	assert.NotNil(t, doc.Root)
}

func TestTokensRawConfigProducesTokens(t *testing.T) {
	cfg := pipeline.Configs["tokens-raw"]
	out, err := cfg.Run([]byte("hello\n"))
	require.NoError(t, err)
	toks, ok := out.([]token.Token)
	require.True(t, ok)
	assert.NotEmpty(t, toks)
}

func TestLexToTagAndTreevizHaveNilSerializer(t *testing.T) {
	assert.Nil(t, pipeline.Configs["lex-to-tag"].Serializer)
	assert.Nil(t, pipeline.Configs["lex-to-treeviz"].Serializer)
}

func TestDefaultConfigsHaveNoSerializer(t *testing.T) {
	assert.Nil(t, pipeline.Configs["default"].Serializer)
	assert.Nil(t, pipeline.Configs["tokens-raw"].Serializer)
}

func TestComposeChainsStagesInOrder(t *testing.T) {
	double := pipeline.Stage[int, int](func(i int) (int, error) { return i * 2, nil })
	addOne := pipeline.Stage[int, int](func(i int) (int, error) { return i + 1, nil })
	chained := pipeline.Compose(double, addOne)

	out, err := chained(10)
	require.NoError(t, err)
	assert.Equal(t, 21, out)
}

func TestComposeShortCircuitsOnError(t *testing.T) {
	boom := pipeline.Stage[int, int](func(int) (int, error) { return 0, assertErr })
	neverRuns := pipeline.Stage[int, string](func(int) (string, error) { return "ran", nil })
	chained := pipeline.Compose(boom, neverRuns)

	_, err := chained(1)
	assert.ErrorIs(t, err, assertErr)
}

var assertErr = testStageErr("boom")

type testStageErr string

func (e testStageErr) Error() string { return string(e) }

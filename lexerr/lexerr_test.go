package lexerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lex-fmt/core-sub003/lexerr"
)

func TestSeverityString(t *testing.T) {
	cases := []struct {
		sev  lexerr.Severity
		want string
	}{
		{lexerr.Hint, "hint"},
		{lexerr.Warning, "warning"},
		{lexerr.Structural, "error"},
		{lexerr.Fatal, "fatal"},
		{lexerr.Severity(99), "unknown"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.sev.String())
	}
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, lexerr.Hint < lexerr.Warning)
	assert.True(t, lexerr.Warning < lexerr.Structural)
	assert.True(t, lexerr.Structural < lexerr.Fatal)
}

func TestTokenErrorMessage(t *testing.T) {
	e := &lexerr.TokenError{Range: lexerr.Range{Start: 3, End: 7}, Message: "bad byte"}
	assert.Equal(t, "token error at 3..7: bad byte", e.Error())
}

func TestStructuralErrorMessage(t *testing.T) {
	e := &lexerr.StructuralError{Range: lexerr.Range{Start: 1, End: 2}, Message: "unmatched indent"}
	assert.Equal(t, "structural error at 1..2: unmatched indent", e.Error())
}

func TestFatalErrorMessage(t *testing.T) {
	e := &lexerr.FatalError{Stage: "indent", Range: lexerr.Range{Start: 0, End: 1}, Message: "stack underflow"}
	assert.Equal(t, `fatal error in stage "indent" at 0..1: stack underflow`, e.Error())
}

func TestStageErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	e := &lexerr.StageError{Stage: "grammar", Err: inner}
	assert.Equal(t, `stage "grammar": boom`, e.Error())
	assert.Same(t, inner, errors.Unwrap(e))
}

func TestDiagnosticString(t *testing.T) {
	d := lexerr.Diagnostic{Severity: lexerr.Warning, Range: lexerr.Range{Start: 5, End: 9}, Message: "broken reference: foo"}
	assert.Equal(t, "warning at 5..9: broken reference: foo", d.String())
}

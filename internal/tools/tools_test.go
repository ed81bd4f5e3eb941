package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeESLint(t *testing.T) {
	raw := []byte(`[
  {
    "filePath": "index.js",
    "messages": [
      {"ruleId": "no-undef", "severity": 2, "message": "'conv' is not defined.", "line": 3, "endLine": 3},
      {"ruleId": "no-unused-vars", "severity": 1, "message": "'x' is assigned a value but never used.", "line": 7}
    ]
  }
]`)
	fs, err := Normalize("eslint", raw)
	require.NoError(t, err)
	require.Len(t, fs, 2)

	assert.Equal(t, "no-undef", fs[0].RuleID)
	assert.Equal(t, "medium", fs[0].Severity)
	assert.Equal(t, "index.js", fs[0].File)
	assert.Equal(t, 3, fs[0].StartLine)
	assert.Equal(t, 3, fs[0].EndLine)

	assert.Equal(t, "low", fs[1].Severity)
	// missing endLine collapses onto the start line
	assert.Equal(t, 7, fs[1].EndLine)
}

func TestNormalizeESLintParseError(t *testing.T) {
	raw := []byte(`[{"filePath": "broken.js", "messages": [{"ruleId": null, "severity": 2, "message": "Parsing error: Unexpected token", "line": 1}]}]`)
	fs, err := Normalize("eslint", raw)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "parse", fs[0].RuleID)
}

func TestNormalizeESLintMalformed(t *testing.T) {
	_, err := Normalize("eslint", []byte("not json"))
	assert.Error(t, err)
}

func TestNormalizeUnknownToolPassthrough(t *testing.T) {
	raw := []byte(`[{"ruleId":"X","severity":"low","file":"a.js","startLine":1,"endLine":1,"message":"m"}]`)
	fs, err := Normalize("other", raw)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "X", fs[0].RuleID)
}

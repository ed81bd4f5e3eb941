package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint("R", "a.js", 1, 2, "conv.ask('x')")
	b := Fingerprint("R", "a.js", 1, 2, "conv.ask('x')")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, Fingerprint("R", "a.js", 1, 3, "conv.ask('x')"))
}

func TestExtractSnippetWindow(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 20; i++ {
		b.WriteString("line\n")
	}
	content := b.String()

	got := ExtractSnippet(content, 10, 10, 4)
	assert.Len(t, strings.Split(got, "\n"), 5) // two lines of context each side

	// out-of-range bounds clamp instead of panicking
	assert.NotEmpty(t, ExtractSnippet(content, -3, 0, 4))
	assert.NotEmpty(t, ExtractSnippet("one line", 1, 1, 6))
}

package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeStripsScripts(t *testing.T) {
	out := Sanitize(`<p>great deal</p><script>alert(1)</script>`)
	require.Contains(t, out, "great deal")
	require.NotContains(t, out, "script")
}

func TestSanitizeStrictStripsAllMarkup(t *testing.T) {
	out := SanitizeStrict(`<b>SAVE10</b>`)
	require.Equal(t, "SAVE10", strings.TrimSpace(out))
}

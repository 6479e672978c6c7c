package extract

import (
	"strings"
	"unicode"
)

// NormalizeText trims s and collapses every whitespace run to a single
// space. It is idempotent.
func NormalizeText(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

// isSpace matches the whitespace class of browser regular expressions,
// which also covers the byte order mark.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

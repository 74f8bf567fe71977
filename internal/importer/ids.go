package importer

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NameToID converts a display name to a stable snake_case identifier.
// Spaces and hyphens become underscores; other punctuation is dropped.
//
// Postcondition: result is lowercase, contains only [a-z0-9_], and is
// idempotent (NameToID(NameToID(s)) == NameToID(s)).
func NameToID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// templateName derives a document name from a template path:
// "content/templates/linear_crypt.lua" becomes "Linear Crypt".
func templateName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	words := strings.FieldsFunc(base, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

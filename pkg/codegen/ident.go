package codegen

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// keywords are the identifiers generated names must never collide with:
// the Go keywords plus the internal "other" sentinel used by def types.
var keywords = []string{
	"break", "case", "chan", "const", "continue", "default", "defer",
	"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
	"interface", "map", "package", "range", "return", "select", "struct",
	"switch", "type", "var",
	// Internal names
	"other",
}

var titleCaser = cases.Title(language.Und)

func isKeyword(ident string) bool {
	for _, kw := range keywords {
		if strings.EqualFold(kw, ident) {
			return true
		}
	}

	return false
}

// needsPrefix reports whether a database name must be escaped before it
// can become a generated identifier.
func needsPrefix(ident string) bool {
	if isKeyword(ident) {
		return true
	}
	for _, r := range ident {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}

	return true // empty name
}

func escape(ident string) string {
	if needsPrefix(ident) {
		return "X" + ident
	}

	return ident
}

// splitWords breaks a database name into words at non-alphanumeric runes
// and at case boundaries (lower-to-upper, and the last upper of an
// acronym followed by a lower).
func splitWords(ident string) []string {
	runes := []rune(ident)
	var words []string
	var word []rune

	flush := func() {
		if len(word) > 0 {
			words = append(words, string(word))
			word = word[:0]
		}
	}

	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			prevUpper := i > 0 && unicode.IsUpper(runes[i-1])
			if prevLower || (prevUpper && nextLower) {
				flush()
			}
			word = append(word, r)
		default:
			word = append(word, r)
		}
	}
	flush()

	return words
}

// pascalIdent maps a database name to a PascalCase identifier, escaping
// keyword collisions and non-alphabetic leading characters. Idempotent:
// feeding its own output back yields the same identifier.
func pascalIdent(ident string) string {
	words := splitWords(escape(ident))
	var b strings.Builder
	for _, word := range words {
		b.WriteString(titleCaser.String(strings.ToLower(word)))
	}

	return b.String()
}

// snakeIdent maps a database name to a snake_case identifier.
func snakeIdent(ident string) string {
	words := splitWords(escape(ident))
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}

	return strings.Join(words, "_")
}

// packageIdent derives a valid generated package name from a uid.
func packageIdent(uid string) string {
	words := splitWords(escape(uid))
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}

	return strings.Join(words, "")
}

// Package normalize canonicalizes the loosely curated strings that arrive
// from the hosted directory store. Upstream tag vocabularies mix hyphens,
// underscores and spaces freely and county names arrive in arbitrary casing,
// so every comparison in the engine goes through these helpers first.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var separators = regexp.MustCompile(`[-_\s]+`)

// Tag normalizes a tag value for matching: lower-cased, with runs of
// hyphens, underscores and whitespace collapsed to a single space.
// "aba-therapy", "ABA_Therapy" and "aba therapy" all normalize to the same
// key. Normalization is idempotent.
func Tag(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	return strings.TrimSpace(separators.ReplaceAllString(lowered, " "))
}

// County normalizes a county name to title case with single spaces, so that
// "miami-dade", "MIAMI-DADE" and "Miami-Dade " compare equal.
func County(value string) string {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return ""
	}
	return TitleCase(cleaned)
}

// TitleCase lower-cases the input and capitalizes the first letter of each
// word. Words are delimited by spaces and hyphens, matching how Florida
// county names are written ("Miami-Dade", "St. Lucie").
func TitleCase(value string) string {
	runes := []rune(strings.ToLower(value))
	capitalizeNext := true
	for i, r := range runes {
		if capitalizeNext && unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			capitalizeNext = false
			continue
		}
		if r == ' ' || r == '-' {
			capitalizeNext = true
		}
	}
	return string(runes)
}

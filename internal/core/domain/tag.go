package domain

import (
	"strings"
	"unicode"
)

// HashtagMarker is the prefix character stripped from raw hashtag strings.
const HashtagMarker = "#"

// TitleCase converts a string to title case: every letter that follows a
// non-letter is uppercased, every other letter is lowercased.
// TitleCase is idempotent: applying it twice yields the same result.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

// NormalizeTag canonicalizes a raw topic or hashtag string: surrounding
// whitespace is trimmed, a leading hashtag marker is stripped, and the result
// is title-cased. Returns "" for strings that are empty after cleanup.
func NormalizeTag(raw string) string {
	tag := strings.TrimSpace(raw)
	tag = strings.TrimPrefix(tag, HashtagMarker)
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	return TitleCase(tag)
}

package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Ellipsis terminates excerpts that were cut short.
const Ellipsis = "…"

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// StripTags removes markup tags from rendered HTML and collapses runs of
// whitespace into single spaces.
func StripTags(html string) string {
	text := tagPattern.ReplaceAllString(html, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Excerpt derives a plain-text excerpt from rendered HTML: tags stripped,
// truncated to at most length runes on a word boundary, with an ellipsis
// appended when text was cut.
func Excerpt(html string, length int) string {
	text := StripTags(html)
	return Truncate(text, length)
}

// Truncate shortens text to at most length runes, preferring to break at the
// last word boundary before the limit. Truncated text ends with an ellipsis.
func Truncate(text string, length int) string {
	if length <= 0 {
		return text
	}
	if utf8.RuneCountInString(text) <= length {
		return text
	}

	runes := []rune(text)
	cut := runes[:length]

	// Back up to a word boundary so the excerpt never splits a word.
	if idx := lastSpace(cut); idx > 0 {
		cut = cut[:idx]
	}

	return strings.TrimRight(string(cut), " ") + Ellipsis
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

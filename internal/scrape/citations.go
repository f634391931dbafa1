package scrape

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var citationRe = regexp.MustCompile(`\[\d+\]`)

// StripCitations removes bracketed numeric citation markers such as "[12]".
// Removal repeats until nothing matches, so nested leftovers like "[[1]2]"
// are gone as well and a second call is a no-op.
func StripCitations(s string) string {
	for {
		out := citationRe.ReplaceAllString(s, "")
		if out == s {
			return out
		}
		s = out
	}
}

// cleanPassage normalizes raw paragraph text: NFC, citations removed and
// whitespace runs collapsed to single spaces.
func cleanPassage(raw string) string {
	text := StripCitations(norm.NFC.String(raw))
	return strings.Join(strings.Fields(text), " ")
}

// passageLen counts characters, not bytes.
func passageLen(s string) int {
	return utf8.RuneCountInString(s)
}

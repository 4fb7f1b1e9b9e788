package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Corpus separator and banner lines left behind by the dataset tooling,
// e.g. "---EMAIL_SEPARATOR---" or a bare "====" rule.
var (
	separatorLineRe = regexp.MustCompile(`(?m)^[ \t]*-{3,}[A-Z_]+-{3,}[ \t]*$|^[ \t]*={4,}[ \t]*$`)
	blankRunRe      = regexp.MustCompile(`\n[ \t]*(\n[ \t]*)+`)
)

// Truncate returns the first max characters of s. Prefix-preserving and
// idempotent; counts code points, not bytes, so a multibyte rune is never
// split.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// Clean normalizes corpus text for the offline dataset path: NFC
// normalization, separator/banner lines removed, runs of blank lines
// collapsed to a single newline, leading/trailing whitespace trimmed.
func Clean(s string) string {
	s = norm.NFC.String(s)
	s = separatorLineRe.ReplaceAllString(s, "")
	s = blankRunRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

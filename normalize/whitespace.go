package normalize

import (
	"regexp"
	"strings"
)

var (
	crlfRe = regexp.MustCompile(`\r\n?`)

	// Horizontal whitespace touching a line boundary. Stripped before
	// blank-line collapsing so that space-padded "empty" lines count as
	// blank.
	trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)
	leadingSpaceRe  = regexp.MustCompile(`\n[ \t]+`)

	// Three or more consecutive newlines, i.e. two or more blank lines.
	blankRunRe = regexp.MustCompile(`\n{3,}`)

	// Horizontal whitespace runs within a line.
	spaceRunRe = regexp.MustCompile(`[ \t]+`)
)

// CollapseWhitespace normalizes whitespace across the whole document:
// runs of blank lines become exactly one blank line, runs of spaces and
// tabs within a line become a single space, line-edge whitespace is
// removed, and the document is trimmed.
//
// Blank-line collapsing runs before intra-line space collapsing so that
// page separators survive as paragraph breaks instead of being flattened
// into spaces. The function is idempotent.
func CollapseWhitespace(s string) string {
	s = crlfRe.ReplaceAllString(s, "\n")
	s = trailingSpaceRe.ReplaceAllString(s, "\n")
	s = leadingSpaceRe.ReplaceAllString(s, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

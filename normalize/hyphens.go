package normalize

import (
	"regexp"
)

var (
	// A word broken across a line break: "verifica-\nción". The hyphen
	// sits immediately before the break, optionally followed by more
	// whitespace before the word continues.
	hyphenBreakRe = regexp.MustCompile(`([\p{L}\p{N}])-[ \t]*\n\s*([\p{L}\p{N}])`)

	// A word broken on the same line with stray whitespace around the
	// hyphen: "verifica - ción" or "verifica- ción". Whitespace after the
	// hyphen is required, which keeps ordinary compounds ("well-known")
	// untouched.
	hyphenGapRe = regexp.MustCompile(`([\p{L}\p{N}])[ \t]*-[ \t]+([\p{L}\p{N}])`)
)

// RepairHyphenation undoes line-wrap hyphenation. Hyphens that sit
// immediately before a line break are removed and the surrounding word
// fragments joined, then same-line breaks with whitespace around the
// hyphen are joined the same way. Both rules require a word character on
// each side of the hyphen, so punctuation hyphens with no surrounding
// whitespace are preserved.
func RepairHyphenation(s string) string {
	s = replaceUntilStable(hyphenBreakRe, s)
	s = replaceUntilStable(hyphenGapRe, s)
	return s
}

// replaceUntilStable reapplies the two-group join until no match remains.
// A single pass can miss chained breaks ("frag- ment- ation") because the
// joined character is consumed by the previous match.
func replaceUntilStable(re *regexp.Regexp, s string) string {
	for re.MatchString(s) {
		s = re.ReplaceAllString(s, "$1$2")
	}
	return s
}

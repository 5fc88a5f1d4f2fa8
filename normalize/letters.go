package normalize

import (
	"strings"
	"unicode"
)

// isRunLetter reports whether r may participate in a letter run: the
// Latin alphabet plus the Spanish diacritics á é í ó ú ü ñ and their
// uppercase forms.
func isRunLetter(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	}
	switch r {
	case 'á', 'é', 'í', 'ó', 'ú', 'ü', 'ñ',
		'Á', 'É', 'Í', 'Ó', 'Ú', 'Ü', 'Ñ':
		return true
	}
	return false
}

// isWordRune reports whether r belongs to a word for boundary purposes.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// JoinLetterRuns fuses runs of two or more single-letter tokens separated
// by spaces into one token, repairing extraction that emits a word as
// individual glyphs ("H I S T O R I A S" becomes "HISTORIAS").
//
// A run must be bounded by word boundaries on both ends, each token must
// be exactly one letter, and separators may be any number of spaces or
// tabs (pre-existing double spaces do not hide a run). A lone single
// letter that is a legitimate standalone word ("de ejemplo a casa") is
// never altered, and tokens containing digits or punctuation never
// participate.
//
// Implemented as a single left-to-right scan, so runtime is linear even
// on adversarial input such as long alternating letter-space sequences.
// Matching is greedy: the longest run wins, and matches do not overlap.
func JoinLetterRuns(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	i := 0
	for i < len(runes) {
		if fused, next := matchLetterRun(runes, i); next > i {
			b.WriteString(fused)
			i = next
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

// matchLetterRun attempts to match a letter run starting at position i.
// On success it returns the fused token and the index just past the run;
// otherwise it returns "" and i.
func matchLetterRun(runes []rune, i int) (string, int) {
	// The run must start at a word boundary on a single run letter.
	if !isRunLetter(runes[i]) {
		return "", i
	}
	if i > 0 && isWordRune(runes[i-1]) {
		return "", i
	}
	if !isIsolatedAt(runes, i) {
		return "", i
	}

	letters := []rune{runes[i]}
	end := i + 1 // index just past the last accepted letter

	for {
		// Consume the separator: one or more spaces or tabs.
		j := end
		for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t') {
			j++
		}
		if j == end || j == len(runes) {
			break
		}
		// The next token must be another isolated single letter.
		if !isRunLetter(runes[j]) || !isIsolatedAt(runes, j) {
			break
		}
		letters = append(letters, runes[j])
		end = j + 1
	}

	if len(letters) < 2 {
		return "", i
	}
	return string(letters), end
}

// isIsolatedAt reports whether the rune at position i is a complete
// single-character token, i.e. not followed by another word rune.
func isIsolatedAt(runes []rune, i int) bool {
	return i+1 >= len(runes) || !isWordRune(runes[i+1])
}

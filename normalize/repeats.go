package normalize

import (
	"strings"
	"unicode/utf8"
)

// DefaultRepeatThreshold is the occurrence count a trimmed line must
// exceed before it is considered a repeated header/footer candidate.
const DefaultRepeatThreshold = 2

// DefaultMaxRepeatedLineLength is the length (in runes) at or above which
// a frequently repeated line is kept anyway. Long repeated content, such
// as a legal disclaimer paragraph, is legitimate; short repeated lines
// are running headers, footers, and page numbers.
const DefaultMaxRepeatedLineLength = 80

// lineFrequencies counts occurrences of every distinct trimmed non-empty
// line. Counts are taken before consecutive deduplication so frequency
// reflects true repetition across the document.
func lineFrequencies(lines []string) map[string]int {
	freq := make(map[string]int)
	for _, line := range lines {
		if line != "" {
			freq[line]++
		}
	}
	return freq
}

// FilterRepeatedLines removes lines that repeat often enough, and are
// short enough, to be running headers, footers, or page numbers. Lines
// are trimmed, immediately consecutive exact duplicates are collapsed to
// one occurrence, and any line whose document-wide frequency exceeds
// threshold and whose length is under maxLen runes is dropped. Blank
// lines are preserved as paragraph breaks and never counted.
func FilterRepeatedLines(s string, threshold, maxLen int) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	freq := lineFrequencies(lines)

	var kept []string
	prev := ""
	for i, line := range lines {
		// Collapse immediately consecutive exact duplicates, e.g. a
		// header emitted twice at a page break.
		if line != "" && i > 0 && line == prev {
			continue
		}
		prev = line

		if line != "" && freq[line] > threshold && utf8.RuneCountInString(line) < maxLen {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

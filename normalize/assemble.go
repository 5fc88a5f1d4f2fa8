package normalize

import (
	"strings"
)

// PageSeparator is inserted between consecutive pages' assembled text.
// Downstream stages treat it as a paragraph break and preserve it.
const PageSeparator = "\n\n"

// AssemblePages concatenates per-page fragment lists into a single raw
// document string. Fragments within a page are joined with a single
// space, pages are joined with [PageSeparator]. Fragment and page order
// is preserved exactly as provided; nothing is dropped. Zero pages yield
// an empty string.
func AssemblePages(pages [][]string) string {
	if len(pages) == 0 {
		return ""
	}

	assembled := make([]string, len(pages))
	for i, fragments := range pages {
		assembled[i] = strings.Join(fragments, " ")
	}
	return strings.Join(assembled, PageSeparator)
}

package limpia

import (
	"fmt"
	"strings"
)

// Warning reports a non-fatal issue encountered during conversion:
// extraction succeeded, but the result may be imperfect.
type Warning struct {
	// Page is the 1-indexed page the warning concerns, or 0 for
	// document-level warnings.
	Page int

	// Message describes the issue.
	Message string
}

// String returns a human-readable form of the warning.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into a single human-readable string.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

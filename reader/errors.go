package reader

import (
	"fmt"
)

// ExtractionError reports a failed PDF text extraction: a corrupt or
// encrypted file, an unreadable page, or a document with no pages. It is
// produced only by this package; the normalization pipeline itself is
// total and never fails.
type ExtractionError struct {
	// Source identifies the document: a filename, or "bytes" for
	// in-memory documents.
	Source string

	// Page is the 1-indexed page the failure occurred on, or 0 when the
	// failure concerns the whole document.
	Page int

	// Err is the underlying cause.
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("extract %s: page %d: %v", e.Source, e.Page, e.Err)
	}
	return fmt.Sprintf("extract %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

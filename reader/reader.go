package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
)

// RowSeparator is emitted between consecutive rows of a page so that line
// structure survives when fragments are later joined with spaces.
const RowSeparator = "\n"

// Reader extracts text fragments from a PDF document.
type Reader struct {
	pdf    *pdf.Reader
	file   *os.File // non-nil when we own an open file handle
	source string
}

// Open opens a PDF file for extraction. The returned Reader must be
// closed when done.
func Open(filename string) (*Reader, error) {
	f, r, err := pdf.Open(filename)
	if err != nil {
		return nil, &ExtractionError{Source: filename, Err: err}
	}
	return &Reader{pdf: r, file: f, source: filepath.Base(filename)}, nil
}

// NewReader creates a Reader from an io.ReaderAt. The caller keeps
// ownership of the underlying data source.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	pr, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, &ExtractionError{Source: "bytes", Err: err}
	}
	return &Reader{pdf: pr, source: "bytes"}, nil
}

// FromBytes creates a Reader over an in-memory PDF document, e.g. an
// uploaded file.
func FromBytes(data []byte) (*Reader, error) {
	return NewReader(bytes.NewReader(data), int64(len(data)))
}

// Close releases the underlying file handle, if any. It is safe to call
// on readers created from memory.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// Source returns the name of the document: the base filename for readers
// opened from disk, "bytes" otherwise.
func (r *Reader) Source() string {
	return r.source
}

// PageCount returns the number of pages in the document.
func (r *Reader) PageCount() int {
	return r.pdf.NumPage()
}

// PageFragments returns the text fragments of page i (0-indexed) in
// extraction order, with a RowSeparator fragment between rows. A page
// with no extractable text yields an empty list, not an error; the page
// keeps its slot in the document.
func (r *Reader) PageFragments(i int) (fragments []string, err error) {
	// The underlying parser panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			fragments = nil
			err = &ExtractionError{Source: r.source, Page: i + 1, Err: fmt.Errorf("%v", rec)}
		}
	}()

	if i < 0 || i >= r.pdf.NumPage() {
		return nil, &ExtractionError{Source: r.source, Page: i + 1, Err: errors.New("page out of range")}
	}

	page := r.pdf.Page(i + 1)
	if page.V.IsNull() {
		return nil, nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, &ExtractionError{Source: r.source, Page: i + 1, Err: err}
	}

	for ri, row := range rows {
		if ri > 0 {
			fragments = append(fragments, RowSeparator)
		}
		for _, txt := range row.Content {
			if txt.S == "" {
				continue
			}
			fragments = append(fragments, txt.S)
		}
	}
	return fragments, nil
}

// AllPages returns the fragments of every page in document order. A
// document with no pages is an extraction failure, not an empty success.
func (r *Reader) AllPages() ([][]string, error) {
	n := r.PageCount()
	if n == 0 {
		return nil, &ExtractionError{Source: r.source, Err: errors.New("document has no pages")}
	}

	pages := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		fragments, err := r.PageFragments(i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, fragments)
	}
	return pages, nil
}

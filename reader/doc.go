// Package reader extracts raw per-page text fragments from PDF files.
//
// The package is a thin collaborator in front of github.com/ledongthuc/pdf:
// it opens a document, reports its page count, and returns each page's text
// fragments in extraction order. No positional metadata is retained; the
// fragments are exactly what the normalize package's pipeline consumes.
//
// # Opening documents
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// Use [FromBytes] or [NewReader] for in-memory documents, e.g. uploads.
//
// # Fragments
//
// [Reader.PageFragments] returns one page's fragments (0-indexed). Rows on
// a page are separated by a literal "\n" fragment so that line structure
// survives space-joined assembly. [Reader.AllPages] returns every page in
// order; pages with no extractable text keep their slot as an empty list.
//
// # Errors
//
// Every failure is reported as an [*ExtractionError] wrapping the backend
// error: corrupt files, encrypted files, and zero-page documents. The
// reader never converts a failed extraction into empty successful output.
package reader

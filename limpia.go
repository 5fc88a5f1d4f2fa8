// Package limpia converts PDF documents into clean, human-readable plain
// text. It extracts each page's raw text fragments and runs them through
// a normalization pipeline that repairs the usual extraction artifacts:
// glyph-spaced words, line-wrap hyphenation, repeated headers and
// footers, and irregular whitespace.
//
// Basic usage:
//
//	text, warnings, err := limpia.Open("document.pdf").Text()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", limpia.FormatWarnings(warnings))
//	}
//
// With options:
//
//	text, _, err := limpia.Open("report.pdf").
//	    Pages(1, 2, 3).
//	    KeepRepeatedLines().
//	    Text()
//
// For advanced use cases, the lower-level reader and normalize packages
// are also available.
package limpia

import (
	"github.com/lectorlabs/limpia/normalize"
	"github.com/lectorlabs/limpia/reader"
)

// Open opens a PDF file and returns an Extractor for fluent
// configuration. The returned Extractor must be closed when done, either
// explicitly via Close() or implicitly when calling a terminal operation
// like Text().
//
// Example:
//
//	text, warnings, err := limpia.Open("document.pdf").Text()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes creates an Extractor over an in-memory PDF document, e.g. an
// uploaded file.
//
// Example:
//
//	text, warnings, err := limpia.FromBytes(data).Text()
func FromBytes(data []byte) *Extractor {
	return &Extractor{
		data:    data,
		options: defaultOptions(),
	}
}

// FromReader creates an Extractor from an already-opened reader.Reader.
// This is useful when you need more control over the reader lifecycle.
// Note: The caller is responsible for closing the reader.
//
// Example:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	text, warnings, err := limpia.FromReader(r).Text()
func FromReader(r *reader.Reader) *Extractor {
	return &Extractor{
		reader:       r,
		ownsReader:   false,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Clean runs the normalization pipeline over an already-extracted
// document string. It is useful when page text comes from somewhere other
// than this module's reader.
func Clean(s string) string {
	return normalize.NewPipeline().NormalizeText(s)
}

// CleanPages assembles per-page fragment lists and runs the normalization
// pipeline over the result. Zero pages yield an empty string.
func CleanPages(pages [][]string) string {
	return normalize.NewPipeline().Normalize(pages)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := limpia.Must(limpia.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to Text() or Result() and panics
// if the error is non-nil. It discards warnings and returns just the
// value. It is intended for use in scripts or tests where error handling
// would be cumbersome.
//
// Example:
//
//	text := limpia.MustText(limpia.Open("document.pdf").Text())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

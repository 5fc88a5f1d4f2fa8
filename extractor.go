package limpia

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lectorlabs/limpia/normalize"
	"github.com/lectorlabs/limpia/reader"
)

// Conversion is the result of a completed conversion, shaped for callers
// that render it (the HTTP service's JSON payload, the CLI's output).
type Conversion struct {
	// Filename is the suggested output filename, derived from the source
	// document's name with a .txt extension.
	Filename string

	// Characters is the rune count of the cleaned text.
	Characters int

	// Text is the cleaned document text.
	Text string
}

// Extractor provides a fluent interface for converting PDF documents to
// clean text. Each configuration method returns a new Extractor instance,
// making it safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source (only one is set)
	filename string
	data     []byte

	// Reader lifecycle
	reader       *reader.Reader
	ownsReader   bool // true if we opened the reader and should close it
	readerOpened bool // true if reader has been opened

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Extractor with a deep copy of
// options. This ensures immutability - each chain method returns a new
// instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		data:         e.data,
		reader:       e.reader,
		ownsReader:   e.ownsReader,
		readerOpened: e.readerOpened,
		options:      e.options.clone(),
		err:          e.err,
		warnings:     append([]Warning(nil), e.warnings...),
	}
}

// ensureReader opens the reader if not already open.
func (e *Extractor) ensureReader() error {
	if e.readerOpened {
		return nil
	}

	switch {
	case e.filename != "":
		r, err := reader.Open(e.filename)
		if err != nil {
			return err
		}
		e.reader = r
		e.ownsReader = true
		e.readerOpened = true
		return nil

	case e.data != nil:
		r, err := reader.FromBytes(e.data)
		if err != nil {
			return err
		}
		e.reader = r
		e.ownsReader = true
		e.readerOpened = true
		return nil

	default:
		return fmt.Errorf("no document specified")
	}
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsReader && e.reader != nil {
		err := e.reader.Close()
		e.reader = nil
		e.ownsReader = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to convert (1-indexed). Multiple calls are
// cumulative.
//
// Example:
//
//	text, _, err := limpia.Open("report.pdf").Pages(1, 2, 3).Text()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// SourceName sets the document name used to derive the generated output
// filename. Open sets it automatically from the opened file; FromBytes
// callers use this to carry the uploaded file's name.
func (e *Extractor) SourceName(name string) *Extractor {
	newExt := e.clone()
	newExt.options.sourceName = name
	return newExt
}

// KeepLetterRuns disables fusing of glyph-spaced letter runs.
func (e *Extractor) KeepLetterRuns() *Extractor {
	newExt := e.clone()
	newExt.options.keepLetterRuns = true
	return newExt
}

// KeepHyphenBreaks disables line-wrap hyphenation repair.
func (e *Extractor) KeepHyphenBreaks() *Extractor {
	newExt := e.clone()
	newExt.options.keepHyphenBreaks = true
	return newExt
}

// KeepRepeatedLines disables removal of repeated header/footer lines.
func (e *Extractor) KeepRepeatedLines() *Extractor {
	newExt := e.clone()
	newExt.options.keepRepeatedLines = true
	return newExt
}

// RepeatThreshold sets the occurrence count a line must exceed before it
// is treated as a repeated header/footer. The default is 2.
func (e *Extractor) RepeatThreshold(n int) *Extractor {
	newExt := e.clone()
	newExt.options.repeatThreshold = n
	return newExt
}

// MaxRepeatedLineLength sets the length (in runes) at or above which a
// frequently repeated line is kept anyway. The default is 80.
func (e *Extractor) MaxRepeatedLineLength(n int) *Extractor {
	newExt := e.clone()
	newExt.options.maxRepeatedLineLength = n
	return newExt
}

// ============================================================================
// Terminal Operations (execute conversion and return results)
// ============================================================================

// Text converts the configured pages and returns the cleaned text.
// This is a terminal operation that closes the underlying reader.
//
// Returns the cleaned text, any warnings encountered during processing,
// and an error if extraction failed. Warnings indicate non-fatal issues
// (e.g., a page with no extractable text) where conversion succeeded but
// results may be incomplete.
//
// Example:
//
//	text, warnings, err := limpia.Open("document.pdf").Text()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", limpia.FormatWarnings(warnings))
//	}
func (e *Extractor) Text() (string, []Warning, error) {
	pages, warnings, err := e.collectFragments()
	if err != nil {
		return "", warnings, err
	}

	pipeline := normalize.NewPipelineWithConfig(e.options.pipelineConfig())
	return pipeline.Normalize(pages), warnings, nil
}

// RawText converts the configured pages without running the cleaning
// pipeline: fragments joined with spaces, pages joined with blank lines.
// This is a terminal operation that closes the underlying reader.
func (e *Extractor) RawText() (string, []Warning, error) {
	pages, warnings, err := e.collectFragments()
	if err != nil {
		return "", warnings, err
	}
	return normalize.AssemblePages(pages), warnings, nil
}

// Fragments returns the raw per-page fragment lists for the configured
// pages, exactly as reported by the extractor. This is a terminal
// operation that closes the underlying reader.
func (e *Extractor) Fragments() ([][]string, []Warning, error) {
	return e.collectFragments()
}

// Result converts the configured pages and returns a Conversion with the
// cleaned text, its rune count, and a generated output filename. This is
// a terminal operation that closes the underlying reader.
func (e *Extractor) Result() (*Conversion, []Warning, error) {
	text, warnings, err := e.Text()
	if err != nil {
		return nil, warnings, err
	}

	return &Conversion{
		Filename:   e.outputFilename(),
		Characters: utf8.RuneCountInString(text),
		Text:       text,
	}, warnings, nil
}

// PageCount returns the number of pages in the document. This is a
// terminal operation that closes the underlying reader.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureReader(); err != nil {
		return 0, err
	}
	defer e.Close()

	return e.reader.PageCount(), nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// collectFragments extracts the raw fragments of every requested page.
func (e *Extractor) collectFragments() ([][]string, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	pageIndices, err := e.resolvePages()
	if err != nil {
		return nil, nil, err
	}

	pages := make([][]string, 0, len(pageIndices))
	for _, idx := range pageIndices {
		fragments, err := e.reader.PageFragments(idx)
		if err != nil {
			return nil, e.warnings, err
		}
		if len(fragments) == 0 {
			e.warnings = append(e.warnings, Warning{
				Page:    idx + 1,
				Message: "no extractable text",
			})
		}
		pages = append(pages, fragments)
	}

	return pages, e.warnings, nil
}

// resolvePages converts 1-indexed page numbers to 0-indexed and validates
// them. If no pages were specified, returns all pages. A document with no
// pages at all is an extraction failure.
func (e *Extractor) resolvePages() ([]int, error) {
	pageCount := e.reader.PageCount()

	if len(e.options.pages) == 0 {
		if pageCount == 0 {
			// Force the reader's zero-page extraction error rather than
			// masking it as an empty success.
			_, err := e.reader.AllPages()
			return nil, err
		}
		pageIndices := make([]int, pageCount)
		for i := 0; i < pageCount; i++ {
			pageIndices[i] = i
		}
		return pageIndices, nil
	}

	seen := make(map[int]bool)
	var pageIndices []int
	for _, p := range e.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		zeroIndexed := p - 1
		if !seen[zeroIndexed] {
			seen[zeroIndexed] = true
			pageIndices = append(pageIndices, zeroIndexed)
		}
	}

	sort.Ints(pageIndices)
	return pageIndices, nil
}

// outputFilename derives the generated .txt filename from the source name.
func (e *Extractor) outputFilename() string {
	name := e.options.sourceName
	if name == "" {
		name = e.filename
	}
	if name == "" {
		return "document.txt"
	}

	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "document.txt"
	}
	return base + ".txt"
}

// Package normalize repairs the text artifacts left behind by naive PDF
// text extraction.
//
// Raw extractor output commonly contains words split into individual
// glyphs ("H I S T O R I A S"), words broken across lines with hyphens
// ("verifica-\nción"), running headers and footers repeated on every
// page, and irregular whitespace. The [Pipeline] applies a fixed sequence
// of heuristic rewrites that undo these artifacts:
//
//  1. [AssemblePages] - join per-page fragments into one document string
//  2. Unicode NFC normalization
//  3. [JoinLetterRuns] - fuse runs of single-letter tokens
//  4. [RepairHyphenation] - remove line-wrap hyphens
//  5. [CollapseWhitespace] - collapse blank-line and space runs
//  6. [FilterRepeatedLines] - drop short, frequently repeated lines
//
// Basic usage:
//
//	p := normalize.NewPipeline()
//	clean := p.Normalize(pages)
//
// Every stage is a total function from string to string: the pipeline
// never fails, holds no state between calls, and is safe for concurrent
// use. Each stage and the pipeline as a whole are idempotent, so cleaned
// text fed back through produces no further change.
package normalize

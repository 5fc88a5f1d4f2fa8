package normalize

import (
	"golang.org/x/text/unicode/norm"
)

// Config holds tuning knobs for the pipeline.
type Config struct {
	// RepeatThreshold is the occurrence count a line must exceed to be
	// treated as a repeated header/footer. Default: 2.
	RepeatThreshold int

	// MaxRepeatedLineLength is the rune length at or above which a
	// frequently repeated line is kept. Default: 80.
	MaxRepeatedLineLength int

	// JoinLetterRuns enables fusing of single-glyph letter runs.
	JoinLetterRuns bool

	// RepairHyphens enables line-wrap hyphenation repair.
	RepairHyphens bool

	// FilterRepeatedLines enables removal of repeated header/footer lines.
	FilterRepeatedLines bool
}

// DefaultConfig returns the default pipeline configuration with every
// repair stage enabled.
func DefaultConfig() Config {
	return Config{
		RepeatThreshold:       DefaultRepeatThreshold,
		MaxRepeatedLineLength: DefaultMaxRepeatedLineLength,
		JoinLetterRuns:        true,
		RepairHyphens:         true,
		FilterRepeatedLines:   true,
	}
}

// Pipeline applies the normalization stages in a fixed order. A Pipeline
// holds no per-call state and may be shared freely across goroutines.
type Pipeline struct {
	config Config
}

// NewPipeline creates a pipeline with the default configuration.
func NewPipeline() *Pipeline {
	return &Pipeline{config: DefaultConfig()}
}

// NewPipelineWithConfig creates a pipeline with custom configuration.
func NewPipelineWithConfig(config Config) *Pipeline {
	if config.RepeatThreshold <= 0 {
		config.RepeatThreshold = DefaultRepeatThreshold
	}
	if config.MaxRepeatedLineLength <= 0 {
		config.MaxRepeatedLineLength = DefaultMaxRepeatedLineLength
	}
	return &Pipeline{config: config}
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

// Normalize assembles the per-page fragment lists and runs the full
// cleaning pipeline over the result. Zero pages yield an empty string.
func (p *Pipeline) Normalize(pages [][]string) string {
	return p.NormalizeText(AssemblePages(pages))
}

// NormalizeText runs the cleaning pipeline over an already-assembled
// document string.
//
// Stage order matters: NFC normalization runs first so that combining
// accents become single runes before letter classification; letter-run
// joining runs before intra-line whitespace collapsing (multi-space gaps
// inside a run are handled by the scanner itself, and nothing downstream
// re-fragments a fused token); hyphen repair runs while line breaks are
// still intact, and runs again after line filtering because dropping a
// line can place a trailing hyphen next to a new continuation; and a
// final whitespace pass restores the blank-line invariant where dropped
// lines left adjacent blanks.
func (p *Pipeline) NormalizeText(s string) string {
	s = norm.NFC.String(s)

	if p.config.JoinLetterRuns {
		s = JoinLetterRuns(s)
	}
	if p.config.RepairHyphens {
		s = RepairHyphenation(s)
	}
	s = CollapseWhitespace(s)
	if p.config.FilterRepeatedLines {
		s = FilterRepeatedLines(s, p.config.RepeatThreshold, p.config.MaxRepeatedLineLength)
		if p.config.RepairHyphens {
			s = RepairHyphenation(s)
		}
		s = CollapseWhitespace(s)
	}
	return s
}

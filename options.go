package limpia

import (
	"github.com/lectorlabs/limpia/normalize"
)

// ExtractOptions holds configuration for conversion.
type ExtractOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// Source naming for generated output filenames
	sourceName string

	// Normalization stage toggles
	keepLetterRuns    bool
	keepHyphenBreaks  bool
	keepRepeatedLines bool

	// Repeated-line filter tuning
	repeatThreshold       int
	maxRepeatedLineLength int
}

// defaultOptions returns the default conversion options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:                 nil, // nil means all pages
		keepLetterRuns:        false,
		keepHyphenBreaks:      false,
		keepRepeatedLines:     false,
		repeatThreshold:       normalize.DefaultRepeatThreshold,
		maxRepeatedLineLength: normalize.DefaultMaxRepeatedLineLength,
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := ExtractOptions{
		sourceName:            o.sourceName,
		keepLetterRuns:        o.keepLetterRuns,
		keepHyphenBreaks:      o.keepHyphenBreaks,
		keepRepeatedLines:     o.keepRepeatedLines,
		repeatThreshold:       o.repeatThreshold,
		maxRepeatedLineLength: o.maxRepeatedLineLength,
	}

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}

// pipelineConfig maps the options onto a normalize.Config.
func (o ExtractOptions) pipelineConfig() normalize.Config {
	return normalize.Config{
		RepeatThreshold:       o.repeatThreshold,
		MaxRepeatedLineLength: o.maxRepeatedLineLength,
		JoinLetterRuns:        !o.keepLetterRuns,
		RepairHyphens:         !o.keepHyphenBreaks,
		FilterRepeatedLines:   !o.keepRepeatedLines,
	}
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/lectorlabs/limpia"
)

func newConvertCmd() *cobra.Command {
	var (
		output            string
		pages             []int
		raw               bool
		keepLetterRuns    bool
		keepHyphenBreaks  bool
		keepRepeatedLines bool
	)

	cmd := &cobra.Command{
		Use:   "convert <file.pdf>",
		Short: "Convert a PDF file to clean text",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ext := limpia.Open(args[0]).
				RepeatThreshold(activeCfg.Normalize.RepeatThreshold).
				MaxRepeatedLineLength(activeCfg.Normalize.MaxRepeatedLineLength)

			if len(pages) > 0 {
				ext = ext.Pages(pages...)
			}
			if keepLetterRuns {
				ext = ext.KeepLetterRuns()
			}
			if keepHyphenBreaks {
				ext = ext.KeepHyphenBreaks()
			}
			if keepRepeatedLines {
				ext = ext.KeepRepeatedLines()
			}

			var (
				text     string
				warnings []limpia.Warning
				err      error
			)
			if raw {
				text, warnings, err = ext.RawText()
			} else {
				text, warnings, err = ext.Text()
			}
			if err != nil {
				return err
			}

			for _, w := range warnings {
				slog.Warn("conversion warning", "detail", w.String())
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				slog.Info("wrote converted text", "path", output, "characters", utf8.RuneCountInString(text))
				return nil
			}

			fmt.Println(text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write text to this file instead of stdout")
	cmd.Flags().IntSliceVarP(&pages, "pages", "p", nil, "Pages to convert (1-indexed, default all)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Skip the cleaning pipeline and print raw extracted text")
	cmd.Flags().BoolVar(&keepLetterRuns, "keep-letter-runs", false, "Do not fuse glyph-spaced letter runs")
	cmd.Flags().BoolVar(&keepHyphenBreaks, "keep-hyphen-breaks", false, "Do not repair line-wrap hyphenation")
	cmd.Flags().BoolVar(&keepRepeatedLines, "keep-repeated-lines", false, "Do not remove repeated header/footer lines")

	return cmd
}

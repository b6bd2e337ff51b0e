package cmd

import (
	"github.com/rusalad/rusalad/core"
	"github.com/rusalad/rusalad/internal/contract"
	"github.com/spf13/cobra"
)

// convertCmd turns an SRT file into timed-text markup.
var convertCmd = &cobra.Command{
	Use:   "convert <file.srt>",
	Short: "Convert SRT subtitles into timed-text markup.",
	Long: `Convert a SubRip (SRT) subtitle file into a W3C timed-text document.

Malformed cues are skipped; the rest of the file is still converted.

Examples:
  # Print the converted document
  rusalad convert captions.srt

  # Write a German document to a file
  rusalad convert captions.srt --lang de --output-file captions.xml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteConvert(cfg, args[0]); err != nil {
			contract.LogFatal("Cannot convert subtitles", err)
		}
	},
}

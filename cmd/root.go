package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vesselwatch/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "vesselwatch",
	Short: "vesselwatch - track fishing vessel mentions in Thai incident reports",
	Long: `vesselwatch processes Thai-language PDF incident reports: it extracts the
text, translates it to English, searches the translation for the vessels on a
tracked fleet roster, and records every hit as a report link against the
vessel's roster row.

The roster may live in a Google Sheet or a local .csv/.xlsx file; reports may
come from a local folder or a Google Drive folder.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}

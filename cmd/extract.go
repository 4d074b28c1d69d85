package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vesselwatch/internal/config"
	"vesselwatch/internal/logger"
	"vesselwatch/internal/pipeline"
	"vesselwatch/internal/translate"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf-file]",
	Short: "Extract (and optionally translate) the text of a single report",
	Long: `Extract the per-page text of one PDF report. By default the embedded text
layer is read locally; scanned reports can go through Google Cloud Vision OCR
with --extractor vision.

With --translate the Thai text is also translated to English and written as a
translated artifact, the same format the process command produces.`,
	Example: `  # Dump the Thai text of a report to stdout
  vesselwatch extract report-042.pdf

  # Scanned report via Vision OCR
  vesselwatch extract report-042.pdf --extractor vision

  # Translate and write translated_report-042.pdf.txt
  vesselwatch extract report-042.pdf --translate -o translated_pdfs`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("extractor", "local", "Extraction backend: local, vision")
	extractCmd.Flags().String("translator", "google", "Translation backend: google, openai")
	extractCmd.Flags().Bool("translate", false, "Translate the extracted text to English")
	extractCmd.Flags().StringP("output", "o", "", "Directory for the translated artifact (default: stdout)")
	extractCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	extractorBackend, _ := cmd.Flags().GetString("extractor")
	translatorBackend, _ := cmd.Flags().GetString("translator")
	doTranslate, _ := cmd.Flags().GetBool("translate")
	outputDir, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]
	if info, err := os.Stat(pdfPath); err != nil {
		return fmt.Errorf("report not found: %s", pdfPath)
	} else if info.Size() == 0 {
		return fmt.Errorf("report is empty: %s", pdfPath)
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	extractor, err := buildExtractor(ctx, extractorBackend)
	if err != nil {
		return err
	}

	file, err := os.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("failed to open report: %w", err)
	}
	defer file.Close()

	pages, err := extractor.ExtractPages(ctx, file)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	log.Info().
		Str("file", pdfPath).
		Int("pages", len(pages)).
		Msg("Extracted report text")

	if doTranslate {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		translator, err := buildTranslator(ctx, translatorBackend, cfg)
		if err != nil {
			return err
		}
		pages, err = translate.TranslatePages(ctx, translator, pages)
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}
	}

	if outputDir != "" {
		path, err := pipeline.WriteTranslation(outputDir, filepath.Base(pdfPath), pages)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	}

	for i, page := range pages {
		fmt.Printf("--- Page %d ---\n%s\n\n", i+1, strings.TrimSpace(page))
	}
	return nil
}

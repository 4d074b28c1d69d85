package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vesselwatch/internal/config"
	"vesselwatch/internal/drive"
	"vesselwatch/internal/logger"
	"vesselwatch/internal/pipeline"
	"vesselwatch/internal/vessel"
)

var processCmd = &cobra.Command{
	Use:   "process [reports-folder]",
	Short: "Run the full pipeline over a folder of Thai report PDFs",
	Long: `Process every PDF report in a folder: extract the Thai text, translate it to
English, persist the translation, search it for every vessel on the roster,
and record each hit as a report link against the vessel's roster row.

A report that fails extraction or translation is logged and skipped; it never
aborts the run. The command exits non-zero if any report failed.

Required environment variables:
  GOOGLE_CLOUD_PROJECT           - Google Cloud project ID
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS             - Inline JSON credentials string
  VESSEL_SPREADSHEET_ID          - Roster spreadsheet ID or URL, OR
  VESSEL_ROSTER_FILE             - Local roster .csv/.xlsx file

Optional environment variables:
  REPORTS_FOLDER_ID    - Google Drive folder to download reports from
  TRANSLATED_DIR       - Where translated artifacts go (default: translated_pdfs)
  FUZZY_MATCH_THRESHOLD - Minimum fuzzy similarity (default: 0.80)`,
	Example: `  # Process all reports in ./input_pdfs against the configured roster
  vesselwatch process ./input_pdfs

  # Scanned reports: use Vision OCR instead of the PDF text layer
  vesselwatch process ./input_pdfs --extractor vision

  # Stricter matching, four parallel reports
  vesselwatch process ./input_pdfs --threshold 0.9 --workers 4

  # Pull the reports from the configured Drive folder first
  vesselwatch process --from-drive

  # Match and log only, don't touch the roster
  vesselwatch process ./input_pdfs --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().Float64("threshold", 0, "Fuzzy match threshold in (0,1] (default: from config)")
	processCmd.Flags().Int("workers", 1, "Number of reports processed in parallel")
	processCmd.Flags().String("extractor", "local", "Extraction backend: local, vision")
	processCmd.Flags().String("translator", "google", "Translation backend: google, openai")
	processCmd.Flags().String("roster-out", "", "Write the updated local roster to this path instead of in place")
	processCmd.Flags().Bool("from-drive", false, "Download reports from the REPORTS_FOLDER_ID Drive folder first")
	processCmd.Flags().Bool("dry-run", false, "Match and log but don't record anything")
	processCmd.Flags().Int("timeout", 1800, "Run timeout in seconds")
}

func runProcess(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("process")

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	workers, _ := cmd.Flags().GetInt("workers")
	extractorBackend, _ := cmd.Flags().GetString("extractor")
	translatorBackend, _ := cmd.Flags().GetString("translator")
	rosterOut, _ := cmd.Flags().GetString("roster-out")
	fromDrive, _ := cmd.Flags().GetBool("from-drive")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if threshold == 0 {
		threshold = cfg.FuzzyMatchThreshold
	}

	reportsDir := cfg.ReportsDir
	if len(args) == 1 {
		reportsDir = args[0]
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	log.Info().
		Str("reports_dir", reportsDir).
		Float64("threshold", threshold).
		Int("workers", workers).
		Str("extractor", extractorBackend).
		Str("translator", translatorBackend).
		Bool("from_drive", fromDrive).
		Bool("dry_run", dryRun).
		Msg("Starting pipeline")

	// Optionally pull the source reports from Drive
	if fromDrive {
		if cfg.ReportsFolderID == "" {
			return fmt.Errorf("--from-drive requires REPORTS_FOLDER_ID to be set")
		}
		if err := downloadReports(ctx, cfg.ReportsFolderID, reportsDir); err != nil {
			return err
		}
	}

	pdfFiles, err := findPDFFiles(reportsDir)
	if err != nil {
		return fmt.Errorf("failed to find PDF files: %w", err)
	}
	if len(pdfFiles) == 0 {
		fmt.Printf("No PDF reports found in %s.\n", reportsDir)
		return nil
	}

	extractor, err := buildExtractor(ctx, extractorBackend)
	if err != nil {
		return err
	}
	translator, err := buildTranslator(ctx, translatorBackend, cfg)
	if err != nil {
		return err
	}

	vessels, recorder, err := loadVesselsAndRecorder(ctx, cfg, rosterOut)
	if err != nil {
		return fmt.Errorf("failed to load vessel roster: %w", err)
	}
	if dryRun {
		recorder = noopRecorder{}
	}

	fmt.Printf("Processing %d reports against %d vessels...\n\n", len(pdfFiles), len(vessels))

	processor := pipeline.NewProcessor(extractor, translator, recorder,
		vessel.NewMatcher(threshold), vessels, cfg.TranslatedDir)
	summary := processor.Run(ctx, pdfFiles, workers)

	printSummary(summary, dryRun)

	if !summary.Ok() {
		return fmt.Errorf("%d reports failed, %d matches not recorded", summary.Failed, summary.RecordFailures)
	}
	return nil
}

// downloadReports pulls all PDFs from the Drive folder into dir. A file that
// fails to download is logged and skipped, consistent with per-report
// failure isolation.
func downloadReports(ctx context.Context, folderID, dir string) error {
	log := logger.WithComponent("process")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	driveService, err := drive.NewService(ctx)
	if err != nil {
		return fmt.Errorf("failed to create Drive service: %w", err)
	}

	files, err := driveService.ListPDFs(ctx, folderID)
	if err != nil {
		return fmt.Errorf("failed to list Drive folder: %w", err)
	}

	for _, file := range files {
		if _, err := driveService.DownloadTo(ctx, file, dir); err != nil {
			log.Error().
				Err(err).
				Str("file", file.Name).
				Msg("Failed to download report, skipping")
		}
	}
	return nil
}

func printSummary(summary pipeline.Summary, dryRun bool) {
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("                 RESULTS")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Reports processed:  %d\n", summary.Processed)
	fmt.Printf("Translated:         %d\n", summary.Translated)
	fmt.Printf("Vessel matches:     %d\n", summary.Matched)
	if dryRun {
		fmt.Println("Mode: dry run (nothing recorded)")
	} else {
		fmt.Printf("Matches recorded:   %d\n", summary.Recorded)
	}
	if summary.Failed > 0 {
		fmt.Printf("Failed reports:     %d\n", summary.Failed)
		for _, name := range summary.FailedReports {
			fmt.Printf("  - %s\n", name)
		}
	}
	if summary.RecordFailures > 0 {
		fmt.Printf("Recording failures: %d\n", summary.RecordFailures)
	}
	fmt.Println(strings.Repeat("=", 50))
}

// noopRecorder satisfies pipeline.Recorder for dry runs.
type noopRecorder struct{}

func (noopRecorder) RecordMatch(_ context.Context, _ vessel.Vessel, _ string) error { return nil }
func (noopRecorder) Flush(_ context.Context) error                                  { return nil }

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vesselwatch/internal/config"
	"vesselwatch/internal/logger"
	"vesselwatch/internal/pipeline"
	"vesselwatch/internal/vessel"
)

var searchCmd = &cobra.Command{
	Use:   "search [translated-folder]",
	Short: "Re-search already-translated artifacts for vessel mentions",
	Long: `Search a folder of translated artifacts (the translated_*.txt files the
process command produces) for every vessel on the roster and record the hits,
without re-extracting or re-translating anything.

Useful after editing the roster or lowering the threshold: a full run's
translation cost is paid once, searches are free.`,
	Example: `  # Search the default translated folder
  vesselwatch search

  # Search with a stricter threshold, record nothing
  vesselwatch search translated_pdfs --threshold 0.9 --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Float64("threshold", 0, "Fuzzy match threshold in (0,1] (default: from config)")
	searchCmd.Flags().String("roster-out", "", "Write the updated local roster to this path instead of in place")
	searchCmd.Flags().Bool("dry-run", false, "Match and log but don't record anything")
	searchCmd.Flags().Int("timeout", 600, "Run timeout in seconds")
}

func runSearch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("search")

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	rosterOut, _ := cmd.Flags().GetString("roster-out")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if threshold == 0 {
		threshold = cfg.FuzzyMatchThreshold
	}

	translatedDir := cfg.TranslatedDir
	if len(args) == 1 {
		translatedDir = args[0]
	}

	artifacts, err := filepath.Glob(filepath.Join(translatedDir, "*.txt"))
	if err != nil {
		return err
	}
	if len(artifacts) == 0 {
		fmt.Printf("No translated artifacts found in %s.\n", translatedDir)
		return nil
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	vessels, recorder, err := loadVesselsAndRecorder(ctx, cfg, rosterOut)
	if err != nil {
		return fmt.Errorf("failed to load vessel roster: %w", err)
	}

	log.Info().
		Str("dir", translatedDir).
		Int("artifacts", len(artifacts)).
		Int("vessels", len(vessels)).
		Float64("threshold", threshold).
		Msg("Searching translated artifacts")

	matcher := vessel.NewMatcher(threshold)
	matched := 0
	recordFailures := 0
	failed := 0

	for _, artifact := range artifacts {
		pages, err := pipeline.ReadTranslation(artifact)
		if err != nil {
			log.Error().Err(err).Str("artifact", artifact).Msg("Failed to read artifact, skipping")
			failed++
			continue
		}

		reportName := pipeline.SourceName(filepath.Base(artifact))
		for _, v := range vessels {
			m, ok := matcher.MatchDocument(v, pages)
			if !ok {
				continue
			}
			matched++
			log.Info().
				Str("vessel", v.Name).
				Str("report", reportName).
				Str("type", m.Type.String()).
				Float64("confidence", m.Confidence).
				Str("span", m.Span).
				Msg("Vessel mentioned in report")

			if dryRun {
				continue
			}
			if err := recorder.RecordMatch(ctx, v, reportName); err != nil {
				log.Error().
					Err(err).
					Str("vessel", v.Name).
					Str("report", reportName).
					Msg("Failed to record match")
				recordFailures++
			}
		}
	}

	if !dryRun {
		if err := recorder.Flush(ctx); err != nil {
			return fmt.Errorf("failed to save roster: %w", err)
		}
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Artifacts searched: %d\n", len(artifacts))
	fmt.Printf("Vessel matches:     %d\n", matched)
	if failed > 0 {
		fmt.Printf("Unreadable files:   %d\n", failed)
	}
	if recordFailures > 0 {
		fmt.Printf("Recording failures: %d\n", recordFailures)
	}
	fmt.Println(strings.Repeat("=", 50))

	if failed > 0 || recordFailures > 0 {
		return fmt.Errorf("%d artifacts unreadable, %d matches not recorded", failed, recordFailures)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"vesselwatch/internal/config"
	"vesselwatch/internal/extract"
	"vesselwatch/internal/pipeline"
	"vesselwatch/internal/sheets"
	"vesselwatch/internal/translate"
	"vesselwatch/internal/vessel"
)

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling run")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// findPDFFiles finds all PDF files in the specified folder
func findPDFFiles(folderPath string) ([]string, error) {
	var pdfFiles []string

	err := filepath.Walk(folderPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(info.Name()), ".pdf") {
			pdfFiles = append(pdfFiles, path)
		}
		return nil
	})

	return pdfFiles, err
}

// buildExtractor selects the extraction backend. "local" reads the PDF text
// layer; "vision" sends the document to Google Cloud Vision OCR.
func buildExtractor(ctx context.Context, backend string) (extract.Extractor, error) {
	switch backend {
	case "local", "":
		return extract.NewLocalExtractor(), nil
	case "vision":
		return extract.NewVisionExtractor(ctx)
	default:
		return nil, fmt.Errorf("unknown extractor backend: %s (want 'local' or 'vision')", backend)
	}
}

// buildTranslator selects the translation backend.
func buildTranslator(ctx context.Context, backend string, cfg *config.Config) (translate.Translator, error) {
	switch backend {
	case "google", "":
		return translate.NewGoogleTranslator(ctx, cfg.TranslateRetries)
	case "openai":
		return translate.NewOpenAITranslator(cfg.OpenAIAPIKey, cfg.TranslateRetries)
	default:
		return nil, fmt.Errorf("unknown translator backend: %s (want 'google' or 'openai')", backend)
	}
}

// loadVesselsAndRecorder loads the tracked vessels together with a recorder
// for match links, preferring a local roster file over the Google Sheet when
// both are configured.
func loadVesselsAndRecorder(ctx context.Context, cfg *config.Config, rosterOut string) ([]vessel.Vessel, pipeline.Recorder, error) {
	if cfg.VesselRosterFile != "" {
		roster, err := vessel.LoadRoster(cfg.VesselRosterFile)
		if err != nil {
			return nil, nil, err
		}
		return roster.Vessels(), vessel.NewRosterRecorder(roster, rosterOut), nil
	}

	service, err := sheets.NewService(ctx, cfg.VesselSpreadsheetID, cfg.SheetsRetries)
	if err != nil {
		return nil, nil, err
	}
	vessels, err := service.LoadVessels(ctx)
	if err != nil {
		return nil, nil, err
	}
	return vessels, service, nil
}

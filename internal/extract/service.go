// Package extract turns PDF incident reports into ordered page texts.
//
// Two backends are provided. LocalExtractor reads the PDF's embedded text
// layer and is the default for born-digital reports. VisionExtractor sends
// the document to Google Cloud Vision document text detection and handles
// scanned reports with no text layer.
//
// Required environment variables for the Vision backend:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// Vision API limitations for synchronous processing: 20MB per file and
// 5 pages per document.
package extract

import (
	"context"
	"io"
)

// Extractor is the text-extraction contract used by the pipeline. Page texts
// are returned in reading order; pages with no text come back as empty
// strings so page indexes stay aligned with the source document.
type Extractor interface {
	// ExtractPages extracts per-page text from a PDF document.
	ExtractPages(ctx context.Context, pdfData io.Reader) ([]string, error)
}

// validatePDFBytes applies the checks shared by both backends.
func validatePDFBytes(pdfBytes []byte) error {
	if len(pdfBytes) < 4 || string(pdfBytes[:4]) != "%PDF" {
		return ErrInvalidPDF
	}
	return nil
}

package extract

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LocalExtractor reads the text layer embedded in a PDF. It needs no
// credentials and no network, but yields nothing for scanned documents.
type LocalExtractor struct{}

// NewLocalExtractor creates a text-layer extractor.
func NewLocalExtractor() *LocalExtractor {
	return &LocalExtractor{}
}

// ExtractPages extracts per-page text from the PDF's text layer.
func (e *LocalExtractor) ExtractPages(ctx context.Context, pdfData io.Reader) ([]string, error) {
	const op = "ExtractPages"

	pdfBytes, err := io.ReadAll(pdfData)
	if err != nil {
		return nil, WrapError(op, err, "failed to read PDF data")
	}
	if err := validatePDFBytes(pdfBytes); err != nil {
		return nil, WrapError(op, err, "missing PDF header")
	}

	reader, err := pdf.NewReader(bytes.NewReader(pdfBytes), int64(len(pdfBytes)))
	if err != nil {
		return nil, WrapError(op, ErrInvalidPDF, err.Error())
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	hasText := false
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, WrapError(op, err, "canceled during extraction")
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			pages = append(pages, "")
			continue
		}
		content = strings.TrimSpace(content)
		if content != "" {
			hasText = true
		}
		pages = append(pages, content)
	}

	if !hasText {
		return nil, WrapError(op, ErrEmptyDocument, "no text layer found")
	}
	return pages, nil
}

package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

const (
	// MaxFileSizeBytes is the maximum file size for synchronous processing (20MB)
	MaxFileSizeBytes = 20 * 1024 * 1024

	// MaxPagesSync is the maximum number of pages for synchronous processing
	MaxPagesSync = 5
)

// VisionExtractor implements Extractor using Google Cloud Vision document
// text detection. It handles scanned reports that have no text layer.
type VisionExtractor struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionExtractor creates a Vision-backed extractor with credentials from
// the environment: GOOGLE_CREDENTIALS inline JSON first, then
// GOOGLE_APPLICATION_CREDENTIALS, then application default credentials.
func NewVisionExtractor(ctx context.Context) (*VisionExtractor, error) {
	const op = "NewVisionExtractor"

	var client *vision.ImageAnnotatorClient
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &VisionExtractor{client: client}, nil
}

// NewVisionExtractorWithClient creates an extractor with an explicit client (for testing).
func NewVisionExtractorWithClient(client *vision.ImageAnnotatorClient) *VisionExtractor {
	return &VisionExtractor{client: client}
}

// ExtractPages runs document text detection and returns per-page text.
func (e *VisionExtractor) ExtractPages(ctx context.Context, pdfData io.Reader) ([]string, error) {
	const op = "ExtractPages"

	pdfBytes, err := io.ReadAll(pdfData)
	if err != nil {
		return nil, WrapError(op, err, "failed to read PDF data")
	}

	if len(pdfBytes) > MaxFileSizeBytes {
		return nil, WrapError(op, ErrPDFTooLarge, fmt.Sprintf("file size: %d bytes", len(pdfBytes)))
	}
	if err := validatePDFBytes(pdfBytes); err != nil {
		return nil, WrapError(op, err, "missing PDF header")
	}

	req := &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  pdfBytes,
					MimeType: "application/pdf",
				},
				Features: []*visionpb.Feature{
					{
						Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION,
					},
				},
			},
		},
	}

	resp, err := e.client.BatchAnnotateFiles(ctx, req)
	if err != nil {
		return nil, WrapError(op, ErrExtractionFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}

	if len(resp.Responses) == 0 {
		return nil, WrapError(op, ErrExtractionFailed, "no response from Vision API")
	}
	fileResp := resp.Responses[0]
	if fileResp.Error != nil {
		return nil, WrapError(op, ErrExtractionFailed, fmt.Sprintf("Vision API error: %s", fileResp.Error.Message))
	}

	return pagesFromResponse(fileResp)
}

// pagesFromResponse collects per-page text from the Vision response,
// preserving page order and keeping blank pages as empty strings.
func pagesFromResponse(fileResp *visionpb.AnnotateFileResponse) ([]string, error) {
	const op = "pagesFromResponse"

	if len(fileResp.Responses) == 0 {
		return nil, WrapError(op, ErrEmptyDocument, "")
	}
	if len(fileResp.Responses) > MaxPagesSync {
		return nil, WrapError(op, ErrTooManyPages, fmt.Sprintf("document has %d pages", len(fileResp.Responses)))
	}

	pages := make([]string, 0, len(fileResp.Responses))
	hasText := false
	for pageIdx, page := range fileResp.Responses {
		if page.Error != nil {
			return nil, WrapError(op, ErrExtractionFailed, fmt.Sprintf("error on page %d: %s", pageIdx+1, page.Error.Message))
		}
		var text string
		if page.FullTextAnnotation != nil {
			text = strings.TrimSpace(page.FullTextAnnotation.Text)
		}
		if text != "" {
			hasText = true
		}
		pages = append(pages, text)
	}

	if !hasText {
		return nil, WrapError(op, ErrEmptyDocument, "")
	}
	return pages, nil
}

// Close closes the underlying Vision client.
func (e *VisionExtractor) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

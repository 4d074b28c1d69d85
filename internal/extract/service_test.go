package extract

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestValidatePDFBytes(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"valid header", []byte("%PDF-1.7 rest of file"), nil},
		{"wrong header", []byte("not a pdf at all"), ErrInvalidPDF},
		{"empty", nil, ErrInvalidPDF},
		{"truncated", []byte("%PD"), ErrInvalidPDF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePDFBytes(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLocalExtractor_RejectsInvalidPDF(t *testing.T) {
	extractor := NewLocalExtractor()

	_, err := extractor.ExtractPages(context.Background(), bytes.NewReader([]byte("garbage")))
	if !errors.Is(err, ErrInvalidPDF) {
		t.Errorf("expected ErrInvalidPDF, got %v", err)
	}

	var eerr *ExtractError
	if !errors.As(err, &eerr) {
		t.Errorf("expected *ExtractError, got %T", err)
	}
}

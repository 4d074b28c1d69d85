// Package translate turns extracted Thai report text into English.
//
// The primary backend is the Google Cloud Translation API; an OpenAI chat
// completion backend exists as an alternative for projects without a Cloud
// Translation quota. Both are wrapped in bounded retry with exponential
// backoff, since quota and network errors are routine for batch runs.
package translate

import (
	"context"
	"strings"
	"time"
)

// DefaultChunkSize is the character budget per translation request. Long
// pages are split on word boundaries into chunks of roughly this size.
const DefaultChunkSize = 1000

// Translator is the translation contract used by the pipeline.
type Translator interface {
	// Translate translates a single piece of Thai text to English.
	Translate(ctx context.Context, text string) (string, error)
}

// TranslatePages translates each page separately so page boundaries survive
// translation. Empty pages pass through untouched.
func TranslatePages(ctx context.Context, t Translator, pages []string) ([]string, error) {
	const op = "TranslatePages"

	translated := make([]string, len(pages))
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			translated[i] = page
			continue
		}
		out, err := t.Translate(ctx, page)
		if err != nil {
			return nil, WrapError(op, err, "")
		}
		translated[i] = out
	}
	return translated, nil
}

// chunkText splits text into word-boundary chunks of at most chunkSize
// characters. Words longer than chunkSize become their own chunk.
func chunkText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	var current []string
	currentLen := 0
	for _, word := range strings.Fields(text) {
		if currentLen > 0 && currentLen+len(word)+1 > chunkSize {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
			currentLen = 0
		}
		current = append(current, word)
		currentLen += len(word) + 1
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// retry calls fn up to attempts times with exponential backoff, honoring
// context cancellation between attempts.
func retry(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := 500 * time.Millisecond
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

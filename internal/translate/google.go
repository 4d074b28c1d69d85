package translate

import (
	"context"
	"fmt"
	"os"
	"strings"

	gtranslate "cloud.google.com/go/translate"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"vesselwatch/internal/logger"
)

// GoogleTranslator implements Translator using the Google Cloud Translation
// API, translating Thai report text to English.
type GoogleTranslator struct {
	client    *gtranslate.Client
	source    language.Tag
	target    language.Tag
	chunkSize int
	retries   int
	log       zerolog.Logger
}

// NewGoogleTranslator creates a Translation API client with credentials from
// the environment, mirroring the Vision extractor's credential resolution.
func NewGoogleTranslator(ctx context.Context, retries int) (*GoogleTranslator, error) {
	const op = "NewGoogleTranslator"

	var client *gtranslate.Client
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = gtranslate.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = gtranslate.NewClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		client, err = gtranslate.NewClient(ctx)
		if err != nil {
			return nil, WrapError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &GoogleTranslator{
		client:    client,
		source:    language.Thai,
		target:    language.English,
		chunkSize: DefaultChunkSize,
		retries:   retries,
		log:       logger.WithComponent("translate"),
	}, nil
}

// Translate translates text to English, splitting long input into
// word-boundary chunks and rejoining the results.
func (t *GoogleTranslator) Translate(ctx context.Context, text string) (string, error) {
	const op = "Translate"

	chunks := chunkText(text, t.chunkSize)
	translated := make([]string, 0, len(chunks))

	for i, chunk := range chunks {
		var out string
		err := retry(ctx, t.retries, func() error {
			resp, err := t.client.Translate(ctx, []string{chunk}, t.target, &gtranslate.Options{
				Source: t.source,
				Format: gtranslate.Text,
			})
			if err != nil {
				return err
			}
			if len(resp) == 0 {
				return fmt.Errorf("empty response from Translation API")
			}
			out = resp[0].Text
			return nil
		})
		if err != nil {
			t.log.Error().
				Err(err).
				Int("chunk", i+1).
				Int("chunks", len(chunks)).
				Msg("Translation failed after retries")
			if isQuotaError(err) {
				return "", WrapError(op, ErrQuotaExceeded, err.Error())
			}
			return "", WrapError(op, ErrTranslationFailed, err.Error())
		}
		translated = append(translated, out)
	}

	return strings.Join(translated, " "), nil
}

// isQuotaError matches the quota and rate-limit failure modes the
// Translation API reports.
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "rateLimitExceeded") ||
		strings.Contains(msg, "quota")
}

// Close closes the underlying Translation client.
func (t *GoogleTranslator) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

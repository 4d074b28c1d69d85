package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"vesselwatch/internal/logger"
)

const openaiSystemPrompt = `You are a professional Thai-to-English translator for maritime incident reports.
Translate the user's text from Thai to English. Preserve vessel names, registration
numbers, dates and place names exactly as written. Respond with the translation only,
no commentary.`

// OpenAITranslator implements Translator using an OpenAI chat completion.
// It is an alternative backend for projects without Cloud Translation access.
type OpenAITranslator struct {
	client    *openai.Client
	model     string
	chunkSize int
	retries   int
	log       zerolog.Logger
}

// NewOpenAITranslator creates an OpenAI-backed translator.
func NewOpenAITranslator(apiKey string, retries int) (*OpenAITranslator, error) {
	const op = "NewOpenAITranslator"

	if apiKey == "" {
		return nil, WrapError(op, ErrMissingCredentials, "OPENAI_API_KEY is not set")
	}

	return &OpenAITranslator{
		client:    openai.NewClient(apiKey),
		model:     openai.GPT4oMini,
		chunkSize: DefaultChunkSize,
		retries:   retries,
		log:       logger.WithComponent("translate-openai"),
	}, nil
}

// Translate translates text to English through a chat completion, chunking
// long input the same way the Google backend does.
func (t *OpenAITranslator) Translate(ctx context.Context, text string) (string, error) {
	const op = "Translate"

	chunks := chunkText(text, t.chunkSize)
	translated := make([]string, 0, len(chunks))

	for i, chunk := range chunks {
		var out string
		err := retry(ctx, t.retries, func() error {
			resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:       t.model,
				Temperature: 0.1,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleSystem, Content: openaiSystemPrompt},
					{Role: openai.ChatMessageRoleUser, Content: chunk},
				},
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("empty response from OpenAI")
			}
			out = strings.TrimSpace(resp.Choices[0].Message.Content)
			return nil
		})
		if err != nil {
			t.log.Error().
				Err(err).
				Int("chunk", i+1).
				Int("chunks", len(chunks)).
				Msg("OpenAI translation failed after retries")
			return "", WrapError(op, ErrTranslationFailed, err.Error())
		}
		translated = append(translated, out)
	}

	return strings.Join(translated, " "), nil
}

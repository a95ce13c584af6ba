package extraction

import (
	"context"
	"errors"
	"fmt"

	"github.com/deepgram/intake/internal/domain/intake/models"
	"github.com/deepgram/intake/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

// ErrExtractionFailed wraps any failure of the extraction request
var ErrExtractionFailed = errors.New("extraction failed")

// ChatCompleter is the subset of the OpenAI client used for extraction
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client runs the one-shot extraction pass over a finished transcript
type Client struct {
	api   ChatCompleter
	model string
}

func NewClient(api ChatCompleter, model string) *Client {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &Client{api: api, model: model}
}

// BuildMessages prepends the extraction instruction to a copy of transcript
func BuildMessages(transcript models.Transcript) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(transcript)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: models.ExtractionInstruction,
	})
	for _, msg := range transcript {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return messages
}

// Extract returns the model's raw answer; callers parse it with ParseRecord
func (c *Client) Extract(ctx context.Context, transcript models.Transcript) (string, error) {
	logger.Debug(logger.EXTRACT, "Extracting record from %d messages", len(transcript))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: BuildMessages(transcript),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		logger.Error(logger.EXTRACT, "Failed to get extraction completion: %v", err)
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response choices returned", ErrExtractionFailed)
	}

	content := resp.Choices[0].Message.Content
	logger.Info(logger.EXTRACT, "Extraction response received (%d bytes)", len(content))
	return content, nil
}

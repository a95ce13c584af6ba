// Package intaketest provides a scripted model provider for exercising the
// intake flow without network access.
package intaketest

import (
	"context"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// FullExtraction is a complete record as the extraction model would return it
const FullExtraction = `{"name":"Jane Doe","email":"jane@x.com","education":"MSc","phone":"555-0100","location":"Leeds","date_of_birth":"1990-01-01"}`

// Provider scripts the assistant: every run appends the next reply. A run
// with no reply left fails.
type Provider struct {
	mu sync.Mutex

	Replies  []string
	Messages []openai.Message

	Extraction      string
	ExtractionErr   error
	ExtractRequests []openai.ChatCompletionRequest
	Deleted         int
}

func (p *Provider) CreateAssistant(context.Context, openai.AssistantRequest) (openai.Assistant, error) {
	return openai.Assistant{ID: "asst_1"}, nil
}

func (p *Provider) DeleteAssistant(context.Context, string) (openai.AssistantDeleteResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Deleted++
	return openai.AssistantDeleteResponse{}, nil
}

func (p *Provider) CreateThread(context.Context, openai.ThreadRequest) (openai.Thread, error) {
	return openai.Thread{ID: "thread_1"}, nil
}

func (p *Provider) DeleteThread(context.Context, string) (openai.ThreadDeleteResponse, error) {
	return openai.ThreadDeleteResponse{}, nil
}

func (p *Provider) CreateMessage(_ context.Context, _ string, req openai.MessageRequest) (openai.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	msg := TextMessage(req.Role, req.Content)
	p.Messages = append(p.Messages, msg)
	return msg, nil
}

func (p *Provider) ListMessage(context.Context, string, *int, *string, *string, *string, *string) (openai.MessagesList, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return openai.MessagesList{Messages: append([]openai.Message(nil), p.Messages...)}, nil
}

func (p *Provider) CreateRun(context.Context, string, openai.RunRequest) (openai.Run, error) {
	return openai.Run{ID: "run_1", Status: openai.RunStatusQueued}, nil
}

func (p *Provider) RetrieveRun(_ context.Context, _ string, runID string) (openai.Run, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Replies) == 0 {
		return openai.Run{ID: runID, Status: openai.RunStatusFailed}, nil
	}
	p.Messages = append(p.Messages, TextMessage(openai.ChatMessageRoleAssistant, p.Replies[0]))
	p.Replies = p.Replies[1:]
	return openai.Run{ID: runID, Status: openai.RunStatusCompleted}, nil
}

func (p *Provider) CancelRun(_ context.Context, _ string, runID string) (openai.Run, error) {
	return openai.Run{ID: runID}, nil
}

func (p *Provider) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ExtractRequests = append(p.ExtractRequests, req)
	if p.ExtractionErr != nil {
		return openai.ChatCompletionResponse{}, p.ExtractionErr
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: p.Extraction},
		}},
	}, nil
}

// Extractions returns how many extraction requests were made
func (p *Provider) Extractions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ExtractRequests)
}

// TextMessage builds a thread message with a single text part
func TextMessage(role, value string) openai.Message {
	return openai.Message{
		Role:    role,
		Content: []openai.MessageContent{{Type: "text", Text: &openai.MessageText{Value: value}}},
	}
}

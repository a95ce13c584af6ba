package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deepgram/intake/internal/domain/intake/models"
	"github.com/deepgram/intake/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

// AssistantAPI is the subset of the OpenAI client the driver needs
type AssistantAPI interface {
	CreateAssistant(ctx context.Context, request openai.AssistantRequest) (openai.Assistant, error)
	DeleteAssistant(ctx context.Context, assistantID string) (openai.AssistantDeleteResponse, error)
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	DeleteThread(ctx context.Context, threadID string) (openai.ThreadDeleteResponse, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
	CancelRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
}

// PollConfig bounds the wait for a run to finish
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultPollConfig waits 5s between checks for up to five minutes
var DefaultPollConfig = PollConfig{
	Interval:    5 * time.Second,
	MaxAttempts: 60,
}

// Driver runs the assistant side of an intake conversation
type Driver struct {
	api  AssistantAPI
	poll PollConfig
}

func NewDriver(api AssistantAPI, poll PollConfig) *Driver {
	if poll.Interval <= 0 {
		poll.Interval = DefaultPollConfig.Interval
	}
	if poll.MaxAttempts <= 0 {
		poll.MaxAttempts = DefaultPollConfig.MaxAttempts
	}
	return &Driver{api: api, poll: poll}
}

// IsExitCommand reports whether input asks to end the session
func IsExitCommand(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), models.ExitCommand)
}

// Ensure creates the assistant and its thread the first time a session needs them
func (d *Driver) Ensure(ctx context.Context, state *models.SessionState) error {
	if state.AssistantID == "" {
		name := models.AssistantName
		instructions := models.AssistantInstructions
		assistant, err := d.api.CreateAssistant(ctx, openai.AssistantRequest{
			Model:        state.Model,
			Name:         &name,
			Instructions: &instructions,
		})
		if err != nil {
			return fmt.Errorf("failed to create assistant: %w", err)
		}
		state.AssistantID = assistant.ID
		logger.Info(logger.CHAT, "Assistant created for session %s: %s", state.ID, assistant.ID)
	}

	if state.ThreadID == "" {
		thread, err := d.api.CreateThread(ctx, openai.ThreadRequest{})
		if err != nil {
			return fmt.Errorf("failed to create thread: %w", err)
		}
		state.ThreadID = thread.ID
		logger.Info(logger.CHAT, "Thread created for session %s: %s", state.ID, thread.ID)
	}

	return nil
}

// Turn posts input to the thread, runs the assistant and returns the latest
// user message with the assistant's reply.
func (d *Driver) Turn(ctx context.Context, state *models.SessionState, input string) (*models.Exchange, error) {
	if IsExitCommand(input) {
		return nil, ErrExitRequested
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	if err := d.Ensure(ctx, state); err != nil {
		return nil, err
	}

	msg, err := d.api.CreateMessage(ctx, state.ThreadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: input,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add message to thread: %w", err)
	}
	logger.Debug(logger.CHAT, "Message %s added to thread %s", msg.ID, state.ThreadID)

	run, err := d.api.CreateRun(ctx, state.ThreadID, openai.RunRequest{
		AssistantID: state.AssistantID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}
	state.LastRunID = run.ID
	logger.Info(logger.CHAT, "Run %s started on thread %s", run.ID, state.ThreadID)

	if err := d.wait(ctx, state.ThreadID, run.ID); err != nil {
		return nil, err
	}

	return d.latestExchange(ctx, state.ThreadID)
}

// wait polls the run until it completes, fails, runs out of attempts or ctx ends
func (d *Driver) wait(ctx context.Context, threadID, runID string) error {
	timer := time.NewTimer(d.poll.Interval)
	defer timer.Stop()

	for attempt := 1; attempt <= d.poll.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			d.cancel(threadID, runID)
			return fmt.Errorf("waiting for run %s: %w", runID, ctx.Err())
		case <-timer.C:
		}

		run, err := d.api.RetrieveRun(ctx, threadID, runID)
		if err != nil {
			d.cancel(threadID, runID)
			return fmt.Errorf("failed to retrieve run %s: %w", runID, err)
		}

		switch run.Status {
		case openai.RunStatusCompleted:
			logger.Debug(logger.CHAT, "Run %s completed after %d checks", runID, attempt)
			return nil
		case openai.RunStatusQueued, openai.RunStatusInProgress, openai.RunStatusCancelling:
			logger.Debug(logger.CHAT, "Waiting for run %s (status %s, check %d/%d)", runID, run.Status, attempt, d.poll.MaxAttempts)
		default:
			runErr := &RunError{RunID: runID, Status: run.Status}
			if run.LastError != nil {
				runErr.Message = run.LastError.Message
			}
			if run.Status == openai.RunStatusRequiresAction {
				d.cancel(threadID, runID)
			}
			return runErr
		}

		timer.Reset(d.poll.Interval)
	}

	d.cancel(threadID, runID)
	return fmt.Errorf("run %s after %d checks: %w", runID, d.poll.MaxAttempts, ErrRunTimedOut)
}

// cancel stops an abandoned run so the thread accepts new messages
func (d *Driver) cancel(threadID, runID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := d.api.CancelRun(ctx, threadID, runID); err != nil {
		logger.Warn(logger.CHAT, "Failed to cancel run %s: %v", runID, err)
	}
}

func (d *Driver) latestExchange(ctx context.Context, threadID string) (*models.Exchange, error) {
	// one page holds the whole intake; the API caps a page at 100
	limit, order := 100, "asc"
	list, err := d.api.ListMessage(ctx, threadID, &limit, &order, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list thread messages: %w", err)
	}

	var user, assistant *models.ChatMessage
	for _, msg := range list.Messages {
		content := messageText(msg)
		logger.Info(logger.CHAT, "%s : %s", msg.Role, content)

		m := models.ChatMessage{Role: msg.Role, Content: content}
		switch msg.Role {
		case openai.ChatMessageRoleUser:
			user = &m
		case openai.ChatMessageRoleAssistant:
			assistant = &m
		}
	}

	if user == nil || assistant == nil {
		return nil, ErrNoReply
	}

	return &models.Exchange{User: *user, Assistant: *assistant}, nil
}

// Close removes the thread and assistant of a finished session
func (d *Driver) Close(ctx context.Context, state *models.SessionState) {
	if state.ThreadID != "" {
		if _, err := d.api.DeleteThread(ctx, state.ThreadID); err != nil {
			logger.Warn(logger.CHAT, "Failed to delete thread %s: %v", state.ThreadID, err)
		}
	}
	if state.AssistantID != "" {
		if _, err := d.api.DeleteAssistant(ctx, state.AssistantID); err != nil {
			logger.Warn(logger.CHAT, "Failed to delete assistant %s: %v", state.AssistantID, err)
		}
	}
}

func messageText(msg openai.Message) string {
	for _, part := range msg.Content {
		if part.Text != nil {
			return part.Text.Value
		}
	}
	return ""
}

package conversation

import (
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

var (
	// ErrExitRequested is returned when the user typed the exit command
	ErrExitRequested = errors.New("exit requested")
	// ErrEmptyInput is returned for blank user input
	ErrEmptyInput = errors.New("empty input")
	// ErrRunTimedOut is returned when a run did not complete within the poll budget
	ErrRunTimedOut = errors.New("run did not complete in time")
	// ErrRunFailed is returned when a run reached a terminal state other than completed
	ErrRunFailed = errors.New("run failed")
	// ErrNoReply is returned when the thread lacks a user or assistant message after a run
	ErrNoReply = errors.New("no reply in thread")
)

// RunError describes a run that ended without completing
type RunError struct {
	RunID   string
	Status  openai.RunStatus
	Message string
}

func (e *RunError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("run %s ended with status %s", e.RunID, e.Status)
	}
	return fmt.Sprintf("run %s ended with status %s: %s", e.RunID, e.Status, e.Message)
}

func (e *RunError) Unwrap() error {
	return ErrRunFailed
}

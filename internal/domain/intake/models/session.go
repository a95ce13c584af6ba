package models

import "time"

// Status is the lifecycle state of an intake session
type Status string

const (
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusAborted  Status = "aborted"
)

// Finished reports whether the session reached a terminal state
func (s Status) Finished() bool {
	return s == StatusComplete || s == StatusAborted
}

// SessionState is everything one intake session owns. It is passed around
// explicitly and persisted by the session store; the API key is never part of it.
type SessionState struct {
	ID          string           `json:"id"`
	Model       string           `json:"model"`
	AssistantID string           `json:"assistant_id,omitempty"`
	ThreadID    string           `json:"thread_id,omitempty"`
	LastRunID   string           `json:"last_run_id,omitempty"`
	Status      Status           `json:"status"`
	Transcript  Transcript       `json:"transcript"`
	Record      *ExtractedRecord `json:"record,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AppendExchange adds both sides of a turn to the transcript
func (s *SessionState) AppendExchange(ex Exchange) {
	s.Transcript = append(s.Transcript, ex.User, ex.Assistant)
}

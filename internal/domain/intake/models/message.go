package models

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in an intake conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Exchange is the user message and the assistant reply produced by one turn
type Exchange struct {
	User      ChatMessage `json:"user"`
	Assistant ChatMessage `json:"assistant"`
}

// Transcript is the ordered conversation history of one session
type Transcript []ChatMessage

// Clone returns a copy that can be extended without touching t
func (t Transcript) Clone() Transcript {
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

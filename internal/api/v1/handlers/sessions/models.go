package sessions

import (
	"github.com/deepgram/intake/internal/domain/intake/models"
	"github.com/deepgram/intake/internal/services/intake"
)

type CreateSessionRequest struct {
	Model string `json:"model,omitempty" validate:"omitempty,oneof=gpt-3.5-turbo gpt-4 gpt-4o gpt-4o-mini"`
}

type CreateSessionResponse struct {
	SessionID string        `json:"session_id"`
	Status    models.Status `json:"status"`
	Model     string        `json:"model"`
	Token     string        `json:"token"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// TurnResponse is a TurnResult with its non-fatal error spelled out
type TurnResponse struct {
	*intake.TurnResult
	Error string `json:"error,omitempty"`
}

func NewTurnResponse(result *intake.TurnResult) TurnResponse {
	resp := TurnResponse{TurnResult: result}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	return resp
}

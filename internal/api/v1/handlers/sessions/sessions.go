package sessions

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	v1mware "github.com/deepgram/intake/internal/api/v1/middleware"
	"github.com/deepgram/intake/internal/infrastructure/openai"
	"github.com/deepgram/intake/internal/services/conversation"
	"github.com/deepgram/intake/internal/services/intake"
	"github.com/deepgram/intake/internal/services/session"
	"github.com/deepgram/intake/pkg/httpext"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// validate caches struct info across requests
var validate = validator.New(validator.WithRequiredStructEnabled())

// HandleCreateSession opens an intake session and hands back its token
func HandleCreateSession(intakeService *intake.Service, sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	// an empty body selects the default model
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		log.Warn().Err(err).Msg("Request validation failed")
		httpext.JsonError(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	state, err := intakeService.Start(r.Context(), req.Model)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	token, err := sessionService.IssueToken(state.ID)
	if err != nil {
		log.Error().Err(err).Str("session_id", state.ID).Msg("Failed to issue session token")
		httpext.JsonError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	sessionService.SetCookie(w, token)

	httpext.JsonResponse(w, http.StatusCreated, CreateSessionResponse{
		SessionID: state.ID,
		Status:    state.Status,
		Model:     state.Model,
		Token:     token,
	})
}

// HandleSendMessage runs one conversation turn. The session cookie is
// expired once the session finishes.
func HandleSendMessage(intakeService *intake.Service, sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if err := validate.Struct(req); err != nil {
		log.Warn().Err(err).Msg("Request validation failed")
		httpext.JsonError(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	sessionID := mux.Vars(r)["id"]
	result, err := intakeService.Send(r.Context(), v1mware.GetAPIKey(r), sessionID, req.Content)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	code := http.StatusOK
	switch {
	case result.Status.Finished():
		sessionService.ClearCookie(w)
	case errors.Is(result.Err, conversation.ErrEmptyInput):
		code = http.StatusBadRequest
	case result.Err != nil && !result.Progress:
		code = http.StatusBadGateway
	}
	httpext.JsonResponse(w, code, NewTurnResponse(result))
}

// HandleGetSession returns the session state and transcript
func HandleGetSession(intakeService *intake.Service, w http.ResponseWriter, r *http.Request) {
	state, err := intakeService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	httpext.JsonResponse(w, http.StatusOK, state)
}

// WriteServiceError maps intake errors onto HTTP statuses
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		httpext.JsonError(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, intake.ErrSessionFinished):
		httpext.JsonError(w, "Session already finished", http.StatusConflict)
	case errors.Is(err, intake.ErrUnsupportedModel):
		httpext.JsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, openai.ErrMissingKey):
		httpext.JsonError(w, "Missing API key", http.StatusUnauthorized)
	default:
		log.Error().Err(err).Msg("Intake request failed")
		httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
	}
}

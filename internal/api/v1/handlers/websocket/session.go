package websocket

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/deepgram/intake/internal/api/v1/handlers/sessions"
	v1mware "github.com/deepgram/intake/internal/api/v1/middleware"
	"github.com/deepgram/intake/internal/connections"
	"github.com/deepgram/intake/internal/services/intake"
	"github.com/deepgram/intake/internal/services/session"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			// TODO: restrict to configured origins once a browser client ships
			return true
		},
	}
)

// ErrorFrame is sent when a message could not be handled at all
type ErrorFrame struct {
	Error string `json:"error"`
}

// HandleSessionWebSocket runs an intake session over a websocket. Each
// inbound frame is a message; each outbound frame is the turn it produced.
// The socket closes once the session finishes.
func HandleSessionWebSocket(intakeService *intake.Service, manager *connections.Manager, w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	apiKey := v1mware.GetAPIKey(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	logCtx := log.With().Str("session_id", sessionID).Logger()
	writeWait := manager.GetTimeouts().WriteWait

	if !manager.Claim(sessionID, conn) {
		logCtx.Warn().Msg("Session already has an open WebSocket")
		closeWith(conn, websocket.ClosePolicyViolation, "session already has an open socket", writeWait)
		return
	}
	defer manager.Release(sessionID, conn)

	done := make(chan struct{})
	defer close(done)
	manager.Keepalive(conn, done)

	logCtx.Info().Msg("WebSocket chat opened")

	for {
		manager.ExtendDeadline(conn)

		var msg sessions.SendMessageRequest
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logCtx.Warn().Err(err).Msg("Unexpected WebSocket closure")
			}
			return
		}

		msg.Content = strings.TrimSpace(msg.Content)
		if msg.Content == "" {
			if !writeFrame(conn, ErrorFrame{Error: "content is required"}, writeWait) {
				return
			}
			continue
		}

		result, err := intakeService.Send(r.Context(), apiKey, sessionID, msg.Content)
		if err != nil {
			writeFrame(conn, ErrorFrame{Error: describe(err)}, writeWait)
			closeWith(conn, websocket.ClosePolicyViolation, describe(err), writeWait)
			return
		}

		if !writeFrame(conn, sessions.NewTurnResponse(result), writeWait) {
			return
		}

		if result.Status.Finished() {
			logCtx.Info().Str("status", string(result.Status)).Msg("Session finished, closing WebSocket")
			closeWith(conn, websocket.CloseNormalClosure, string(result.Status), writeWait)
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, v any, writeWait time.Duration) bool {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write WebSocket frame")
		return false
	}
	return true
}

func closeWith(conn *websocket.Conn, code int, reason string, writeWait time.Duration) {
	msg := websocket.FormatCloseMessage(code, reason)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func describe(err error) string {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return "session not found"
	case errors.Is(err, intake.ErrSessionFinished):
		return "session already finished"
	default:
		return "internal server error"
	}
}

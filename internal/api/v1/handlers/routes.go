package handlers

import (
	"net/http"

	"github.com/deepgram/intake/internal/api/v1/handlers/sessions"
	"github.com/deepgram/intake/internal/api/v1/handlers/websocket"
	v1mware "github.com/deepgram/intake/internal/api/v1/middleware"
	"github.com/deepgram/intake/internal/services"
	"github.com/gorilla/mux"
)

func RegisterV1Routes(router *mux.Router, services *services.Services) {
	intakeService := services.GetIntakeService()
	sessionService := services.GetSessionService()
	connManager := services.GetConnectionManager()

	// v1 routes
	v1 := router.PathPrefix("/v1").Subrouter()

	// Session creation needs only the caller's provider key
	v1.Handle("/sessions", v1mware.RateLimit("session_create")(v1mware.RequireAPIKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessions.HandleCreateSession(intakeService, sessionService, w, r)
	})))).Methods("POST")

	// Everything under a session requires its token
	v1sessionRouter := v1.PathPrefix("/sessions/{id}").Subrouter()
	v1sessionRouter.Use(v1mware.RequireSession(sessionService))

	v1sessionRouter.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		sessions.HandleGetSession(intakeService, w, r)
	}).Methods("GET")

	v1sessionRouter.Handle("/messages", v1mware.RateLimit("session_message")(v1mware.RequireAPIKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessions.HandleSendMessage(intakeService, sessionService, w, r)
	})))).Methods("POST")

	v1sessionRouter.Handle("/ws", v1mware.RequireAPIKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		websocket.HandleSessionWebSocket(intakeService, connManager, w, r)
	}))).Methods("GET")
}

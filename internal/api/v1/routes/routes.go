package routes

import (
	"net/http"

	v1handlers "github.com/deepgram/intake/internal/api/v1/handlers"
	"github.com/deepgram/intake/internal/services"
	"github.com/deepgram/intake/pkg/httpext"
	"github.com/gorilla/mux"
)

// NewRouter builds the HTTP surface: health check plus the v1 API
func NewRouter(services *services.Services) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", HandleHealth).Methods("GET")
	v1handlers.RegisterV1Routes(router, services)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpext.JsonError(w, "Not found", http.StatusNotFound)
	})

	return router
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

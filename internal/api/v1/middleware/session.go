package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/deepgram/intake/internal/services/session"
	"github.com/deepgram/intake/pkg/httpext"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	sessionClaimsKey contextKey = "sessionClaims"
	apiKeyKey        contextKey = "apiKey"
)

// RequireSession checks the session token and that it was issued for the
// session named in the route
func RequireSession(sessionService *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := session.TokenFromRequest(r)
			if tokenString == "" {
				httpext.JsonError(w, "Missing session token", http.StatusUnauthorized)
				return
			}

			claims, err := sessionService.ParseToken(tokenString)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected session token")
				httpext.JsonError(w, "Invalid session token", http.StatusUnauthorized)
				return
			}

			if id := mux.Vars(r)["id"]; id != "" && id != claims.SessionID {
				log.Warn().
					Str("path", r.URL.Path).
					Str("token_session", claims.SessionID).
					Msg("Session token used for another session")
				httpext.JsonError(w, "Session token does not match session", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), sessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAPIKey takes the caller's provider key from the Authorization
// header. The key lives only in the request context.
func RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ExtractBearer(r)
		if key == "" {
			httpext.JsonError(w, "Missing API key", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), apiKeyKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ExtractBearer returns the bearer credential of the request, if any
func ExtractBearer(r *http.Request) string {
	scheme, value, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(value)
}

// GetSessionClaims retrieves the validated session claims from the request context
func GetSessionClaims(r *http.Request) *session.SessionClaims {
	if claims, ok := r.Context().Value(sessionClaimsKey).(*session.SessionClaims); ok {
		return claims
	}
	return nil
}

// GetAPIKey retrieves the caller's provider key from the request context
func GetAPIKey(r *http.Request) string {
	if key, ok := r.Context().Value(apiKeyKey).(string); ok {
		return key
	}
	return ""
}

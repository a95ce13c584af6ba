package config

import (
	"sync"
	"time"
)

var (
	sessionMu sync.RWMutex
	// SessionCookieName is the name of the session cookie
	// Default to "intake_session" if not set in environment
	SessionCookieName = GetEnvOrDefault("SESSION_COOKIE_NAME", "intake_session")
)

// SessionTokenHeader carries the session token for clients that do not keep cookies
const SessionTokenHeader = "X-Session-Token"

// GetSessionCookieName returns the configured session cookie name
func GetSessionCookieName() string {
	sessionMu.RLock()
	defer sessionMu.RUnlock()
	return SessionCookieName
}

// SetSessionCookieName temporarily changes the session cookie name and returns a function to restore it
// This is primarily used for testing
func SetSessionCookieName(name string) func() {
	sessionMu.Lock()
	previous := SessionCookieName
	SessionCookieName = name
	sessionMu.Unlock()

	return func() {
		sessionMu.Lock()
		SessionCookieName = previous
		sessionMu.Unlock()
	}
}

// GetSessionTTL returns how long an intake session is kept
func GetSessionTTL() time.Duration {
	return parseEnvDuration("SESSION_TTL", time.Hour)
}

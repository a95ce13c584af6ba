package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/deepgram/intake/internal/config"
	"github.com/deepgram/intake/internal/domain/intake/models"
	"github.com/deepgram/intake/internal/infrastructure/redis"
	"github.com/deepgram/intake/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSessionNotFound is returned for unknown or expired sessions
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidToken is returned when a session token fails verification
	ErrInvalidToken = errors.New("invalid session token")
)

type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

type SessionStore interface {
	Set(ctx context.Context, state *models.SessionState) error
	Get(ctx context.Context, sessionID string) (*models.SessionState, error)
	Delete(ctx context.Context, sessionID string) error
}

type RedisStore struct {
	redisService *redis.Service
	ttl          time.Duration
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type Service struct {
	store SessionStore
	ttl   time.Duration
}

func NewService(redisService *redis.Service, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}

	var store SessionStore
	if redisService != nil {
		if err := redisService.Ping(context.Background()); err != nil {
			logger.Warn(logger.SESSION, "Redis unreachable, keeping sessions in memory: %v", err)
			store = NewMemoryStore(ttl)
		} else {
			logger.Info(logger.SESSION, "Keeping sessions in Redis")
			store = &RedisStore{redisService: redisService, ttl: ttl}
		}
	} else {
		store = NewMemoryStore(ttl)
	}

	return &Service{store: store, ttl: ttl}
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
	}
}

// Redis Store implementation
func (rs *RedisStore) Set(ctx context.Context, state *models.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return rs.redisService.SaveSession(ctx, state.ID, data, rs.ttl)
}

func (rs *RedisStore) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	data, err := rs.redisService.LoadSession(ctx, sessionID)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var state models.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

func (rs *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return rs.redisService.DeleteSession(ctx, sessionID)
}

// Memory Store implementation. States are stored serialised so callers
// never share a pointer with the store.
func (ms *MemoryStore) Set(ctx context.Context, state *models.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[state.ID] = memoryEntry{data: data, expiresAt: time.Now().Add(ms.ttl)}
	return nil
}

func (ms *MemoryStore) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	ms.mu.RLock()
	entry, exists := ms.sessions[sessionID]
	ms.mu.RUnlock()

	if !exists || time.Now().After(entry.expiresAt) {
		return nil, ErrSessionNotFound
	}

	var state models.SessionState
	if err := json.Unmarshal(entry.data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, sessionID)
	return nil
}

// Save persists state
func (s *Service) Save(ctx context.Context, state *models.SessionState) error {
	state.UpdatedAt = time.Now().UTC()
	if err := s.store.Set(ctx, state); err != nil {
		return fmt.Errorf("failed to save session %s: %w", state.ID, err)
	}
	return nil
}

// Load fetches the state of sessionID
func (s *Service) Load(ctx context.Context, sessionID string) (*models.SessionState, error) {
	return s.store.Get(ctx, sessionID)
}

// Delete forgets sessionID
func (s *Service) Delete(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// IssueToken signs a token that identifies sessionID to later requests
func (s *Service) IssueToken(sessionID string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        sessionID,
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.GetJWTSecret())
}

// ParseToken verifies token and returns its claims
func (s *Service) ParseToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return config.GetJWTSecret(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SetCookie writes the session cookie carrying token
func (s *Service) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.GetSessionCookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(s.ttl),
	})
}

// ClearCookie expires the session cookie
func (s *Service) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.GetSessionCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

// TokenFromRequest reads the session token from the header or the cookie
func TokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(config.SessionTokenHeader)); token != "" {
		return token
	}
	if cookie, err := r.Cookie(config.GetSessionCookieName()); err == nil {
		return cookie.Value
	}
	return ""
}

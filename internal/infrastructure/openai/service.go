package openai

import (
	"errors"
	"sync"

	"github.com/deepgram/intake/internal/config"
	"github.com/deepgram/intake/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

// ErrMissingKey is returned when no API key was supplied by the user
var ErrMissingKey = errors.New("openai: API key is required")

// Service builds OpenAI clients for user-supplied keys. Keys are never
// stored; each client lives only as long as the caller holds it.
type Service struct {
	mu      sync.RWMutex
	baseURL string
}

func NewService() *Service {
	logger.Info(logger.SERVICE, "Initialising OpenAI service")
	return &Service{
		baseURL: config.GetOpenAIBaseURL(),
	}
}

// NewServiceWithBaseURL points every client at baseURL, e.g. a test server
func NewServiceWithBaseURL(baseURL string) *Service {
	return &Service{baseURL: baseURL}
}

// Client returns a client authenticated with key
func (s *Service) Client(key string) (*openai.Client, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := openai.DefaultConfig(key)
	if s.baseURL != "" {
		cfg.BaseURL = s.baseURL
	}
	return openai.NewClientWithConfig(cfg), nil
}

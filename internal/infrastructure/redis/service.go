package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deepgram/intake/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const sessionPrefix = "intake:session:"

// ErrNotFound is returned when a key does not exist or has expired
var ErrNotFound = errors.New("redis: key not found")

// Service keeps serialised session state in Redis
type Service struct {
	client *redis.Client
}

// NewService connects using REDIS_URL. It returns nil when Redis is not
// configured or not reachable, and callers fall back to memory.
func NewService() *Service {
	url := config.GetRedisURL()
	if url == "" {
		log.Warn().Msg("Redis URL not configured - sessions will be kept in memory")
		return nil
	}

	opts, err := Options(url, config.GetRedisPassword())
	if err != nil {
		log.Error().Err(err).Msg("Invalid Redis URL - sessions will be kept in memory")
		return nil
	}
	return NewServiceWithOptions(opts)
}

// Options accepts either a redis:// URL or a bare host:port
func Options(url, password string) (*redis.Options, error) {
	if !strings.Contains(url, "://") {
		return &redis.Options{Addr: url, Password: password}, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	return opts, nil
}

// NewServiceWithOptions connects with opts and returns nil when Redis is unreachable
func NewServiceWithOptions(opts *redis.Options) *Service {
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().
			Err(err).
			Str("addr", opts.Addr).
			Msg("Failed to establish Redis connection")
		_ = client.Close()
		return nil
	}

	log.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
	return &Service{client: client}
}

// SaveSession stores the encoded state of sessionID for ttl
func (s *Service) SaveSession(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionPrefix+sessionID, data, ttl).Err(); err != nil {
		log.Error().
			Err(err).
			Str("session_id", sessionID).
			Dur("ttl", ttl).
			Msg("Redis SET operation failed")
		return err
	}
	return nil
}

// LoadSession returns the encoded state of sessionID
func (s *Service) LoadSession(ctx context.Context, sessionID string) ([]byte, error) {
	data, err := s.client.Get(ctx, sessionPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("Redis GET operation failed")
		return nil, err
	}
	return data, nil
}

// DeleteSession removes the state of sessionID
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionPrefix+sessionID).Err()
}

// Ping checks if Redis is accessible
func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Service) Close() error {
	return s.client.Close()
}

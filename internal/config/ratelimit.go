package config

import (
	"time"

	"github.com/deepgram/intake/pkg/logger"
)

type RateLimitConfig struct {
	Enabled bool
	MaxHits int
	Window  time.Duration
}

func GetRateLimitConfig(key string) RateLimitConfig {
	enabled := GetEnvOrDefault("RATELIMIT_ENABLED", "false") == "true"

	configs := map[string]RateLimitConfig{
		"session_create": {
			Enabled: enabled,
			MaxHits: parseEnvInt("RATELIMIT_SESSION_CREATE", 10), // 10 sessions per minute
			Window:  time.Minute,
		},
		"session_message": {
			Enabled: enabled,
			MaxHits: parseEnvInt("RATELIMIT_SESSION_MESSAGE", 30), // 30 turns per minute
			Window:  time.Minute,
		},
	}

	if config, exists := configs[key]; exists {
		return config
	}

	logger.Warn(logger.CONFIG, "No rate limit config found for key: %s", key)
	return RateLimitConfig{Enabled: false}
}

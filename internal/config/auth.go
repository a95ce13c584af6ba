package config

import (
	"crypto/rand"
	"sync"

	"github.com/deepgram/intake/pkg/logger"
)

var (
	jwtSecretMu sync.RWMutex
	// jwtSecret signs session tokens. It is loaded from JWT_SECRET on first use.
	jwtSecret []byte
)

// GetJWTSecret returns the session token signing key
func GetJWTSecret() []byte {
	jwtSecretMu.RLock()
	secret := jwtSecret
	jwtSecretMu.RUnlock()
	if secret != nil {
		return secret
	}

	jwtSecretMu.Lock()
	defer jwtSecretMu.Unlock()
	if jwtSecret == nil {
		jwtSecret = loadJWTSecret()
	}
	return jwtSecret
}

// SetJWTSecret replaces the signing key and returns a function restoring
// the previous one. A nil secret makes the next read load it again.
func SetJWTSecret(secret []byte) func() {
	jwtSecretMu.Lock()
	previous := jwtSecret
	jwtSecret = secret
	jwtSecretMu.Unlock()

	return func() {
		jwtSecretMu.Lock()
		jwtSecret = previous
		jwtSecretMu.Unlock()
	}
}

func loadJWTSecret() []byte {
	if value := GetEnvOrDefault("JWT_SECRET", ""); value != "" {
		return []byte(value)
	}

	logger.Warn(logger.CONFIG, "JWT_SECRET not set - using a per-process secret, session tokens will not survive a restart")
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		logger.Fatal(logger.CONFIG, "Failed to generate JWT secret: %v", err)
		panic(err)
	}
	return secret
}

package config

import (
	"time"
)

// SupportedModels is the fixed set of assistant models a user may pick from.
var SupportedModels = []string{"gpt-3.5-turbo", "gpt-4", "gpt-4o", "gpt-4o-mini"}

// IntakeConfig holds the settings of the conversation and extraction passes
type IntakeConfig struct {
	DefaultModel    string
	ExtractionModel string
	PollInterval    time.Duration
	PollMaxAttempts int
	OutputPath      string
}

func GetIntakeConfig() IntakeConfig {
	return IntakeConfig{
		DefaultModel:    GetEnvOrDefault("INTAKE_DEFAULT_MODEL", "gpt-4"),
		ExtractionModel: GetEnvOrDefault("INTAKE_EXTRACTION_MODEL", "gpt-3.5-turbo"),
		PollInterval:    parseEnvDuration("INTAKE_POLL_INTERVAL", 5*time.Second),
		PollMaxAttempts: parseEnvInt("INTAKE_POLL_MAX_ATTEMPTS", 60),
		OutputPath:      GetEnvOrDefault("INTAKE_OUTPUT_PATH", "output.csv"),
	}
}

// IsSupportedModel reports whether model is one of SupportedModels
func IsSupportedModel(model string) bool {
	for _, m := range SupportedModels {
		if m == model {
			return true
		}
	}
	return false
}

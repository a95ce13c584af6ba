package config

// GetOpenAIBaseURL returns an optional override for the OpenAI API base URL,
// e.g. a proxy. Empty means the library default.
func GetOpenAIBaseURL() string {
	return GetEnvOrDefault("OPENAI_BASE_URL", "")
}

// GetOpenAIKeyFromEnv returns a key for the terminal client. The HTTP server
// never reads it; keys arrive per request there.
func GetOpenAIKeyFromEnv() string {
	return GetEnvOrDefault("OPENAI_API_KEY", "")
}

package config

func GetPort() string {
	return GetEnvOrDefault("PORT", "8080")
}

func GetLogDir() string {
	return GetEnvOrDefault("LOG_DIR", "logs")
}

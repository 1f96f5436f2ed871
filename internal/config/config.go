// Package config provides configuration for the chat backend.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the process configuration. It is loaded once at startup and
// injected into the components that need it; adapters never read the
// environment themselves.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Gemini (direct text generation)
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	// Bedrock knowledge base (retrieval-augmented generation)
	AWSRegion       string
	KnowledgeBaseID string
	KBModelARN      string

	// Timeouts
	ProviderTimeout time.Duration

	// Mode ("MOCK" swaps in stub providers)
	Mode string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:        getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:     getEnv("DATABASE_URL", "file:chat.db?cache=shared&mode=rwc"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:   getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		KnowledgeBaseID: getEnv("KB_ID", ""),
		KBModelARN:      getEnv("KB_MODEL_ARN", "anthropic.claude-3-haiku-20240307-v1:0"),
		ProviderTimeout: time.Duration(getEnvInt("PROVIDER_TIMEOUT_MS", 30000)) * time.Millisecond,
		Mode:            getEnv("CHAT_MODE", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

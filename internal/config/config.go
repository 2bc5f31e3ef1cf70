package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"kitchen-assistant/internal/shared"
)

const (
	defaultDataDir       = ".kitchen"
	defaultStorageQuota  = 5 * 1024 * 1024
	defaultProvider      = shared.ProviderOpenAI
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultLocalLLMURL   = "http://localhost:1234/v1"
)

// Config holds the configuration for the application.
type Config struct {
	// Provider credentials. Empty means "not configured".
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAITextModel  string
	OpenAIImageModel string
	GeminiAPIKey     string
	GeminiModel      string
	GroqAPIKey       string
	LocalLLMURL      string

	// Persistence
	DataDir      string
	DatabasePath string
	StorageQuota int64

	DefaultProvider string
	LogLevel        string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	dataDir := getEnv("KITCHEN_DATA_DIR", defaultDataDir)

	quota := int64(defaultStorageQuota)
	if raw := os.Getenv("KITCHEN_STORAGE_QUOTA"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("KITCHEN_STORAGE_QUOTA must be a positive number of bytes, got %q", raw)
		}
		quota = parsed
	}

	provider := getEnv("KITCHEN_PROVIDER", defaultProvider)
	if !shared.IsProviderName(provider) {
		return nil, fmt.Errorf("KITCHEN_PROVIDER %q is not a known provider", provider)
	}

	return &Config{
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", defaultOpenAIBaseURL),
		OpenAITextModel:  getEnv("OPENAI_TEXT_MODEL", "gpt-4.1-mini"),
		OpenAIImageModel: getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		LocalLLMURL:      getEnv("LOCAL_LLM_URL", defaultLocalLLMURL),
		DataDir:          dataDir,
		DatabasePath:     getEnv("KITCHEN_DB_PATH", filepath.Join(dataDir, "kitchen.db")),
		StorageQuota:     quota,
		DefaultProvider:  provider,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}, nil
}

// StorePath is the directory holding the structured key/value records.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "store")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_TEXT_MODEL", "OPENAI_IMAGE_MODEL",
		"GEMINI_API_KEY", "GEMINI_MODEL", "GROQ_API_KEY", "LOCAL_LLM_URL",
		"KITCHEN_DATA_DIR", "KITCHEN_DB_PATH", "KITCHEN_STORAGE_QUOTA",
		"KITCHEN_PROVIDER", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := NewFromEnv()
		require.NoError(t, err)

		assert.Equal(t, ".kitchen", cfg.DataDir)
		assert.Equal(t, filepath.Join(".kitchen", "kitchen.db"), cfg.DatabasePath)
		assert.Equal(t, filepath.Join(".kitchen", "store"), cfg.StorePath())
		assert.Equal(t, int64(5*1024*1024), cfg.StorageQuota)
		assert.Equal(t, "openai", cfg.DefaultProvider)
		assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAIBaseURL)
		assert.Equal(t, "http://localhost:1234/v1", cfg.LocalLLMURL)
		assert.Equal(t, "gpt-4.1-mini", cfg.OpenAITextModel)
		assert.Equal(t, "gpt-image-1", cfg.OpenAIImageModel)
		assert.Empty(t, cfg.OpenAIAPIKey)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("Overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("GROQ_API_KEY", "groq_key")
		t.Setenv("KITCHEN_DATA_DIR", "/tmp/kitchen")
		t.Setenv("KITCHEN_STORAGE_QUOTA", "1024")
		t.Setenv("KITCHEN_PROVIDER", "groq")

		cfg, err := NewFromEnv()
		require.NoError(t, err)

		assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
		assert.Equal(t, "groq_key", cfg.GroqAPIKey)
		assert.Equal(t, "/tmp/kitchen/kitchen.db", cfg.DatabasePath)
		assert.Equal(t, int64(1024), cfg.StorageQuota)
		assert.Equal(t, "groq", cfg.DefaultProvider)
	})

	t.Run("InvalidQuota", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("KITCHEN_STORAGE_QUOTA", "lots")

		_, err := NewFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "KITCHEN_STORAGE_QUOTA")
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("KITCHEN_PROVIDER", "mystery")

		_, err := NewFromEnv()
		require.Error(t, err)
		assert.Equal(t, `KITCHEN_PROVIDER "mystery" is not a known provider`, err.Error())
	})
}

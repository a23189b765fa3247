package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"LLM_PROVIDER", "LLM_MODEL", "LLM_API_KEY", "LLM_BASE_URL", "LLM_RPS", "LLM_BURST", "LLM_RETRIES",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "GROQ_API_KEY",
		"DIRSIGHT_CONCURRENCY", "DIRSIGHT_CALL_TIMEOUT", "STORE_BACKEND", "STORE_DIR", "STORE_DSN", "DATABASE_URL", "STORE_CACHE",
		"ARTIFACT_S3_USE_SSL", "ARTIFACT_S3_BUCKET",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := fromEnv()
	assert.Equal(t, "fake", cfg.LLM.Client.Provider)
	assert.Equal(t, 3, cfg.LLM.Retries)
	assert.Equal(t, 4, cfg.Engine.Concurrency)
	assert.Equal(t, 120*time.Second, cfg.Engine.CallTimeout)
	assert.Equal(t, 64, cfg.Engine.MaxDepth)
	assert.Equal(t, "disk", cfg.Store.Backend)
	assert.NotEmpty(t, cfg.Store.Dir)
	assert.Equal(t, "dirsight-runs", cfg.Store.S3.Bucket)
	assert.True(t, cfg.Store.S3.UseSSL)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("DIRSIGHT_CONCURRENCY", "8")
	t.Setenv("DIRSIGHT_CALL_TIMEOUT", "30")
	t.Setenv("LLM_RPS", "1.5")
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("DATABASE_URL", "file:runs.db")
	t.Setenv("STORE_CACHE", "true")

	cfg := fromEnv()
	assert.Equal(t, "gemini", cfg.LLM.Client.Provider)
	assert.Equal(t, "g-key", cfg.LLM.Client.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Client.Model)
	assert.Equal(t, 1.5, cfg.LLM.RPS)
	assert.Equal(t, 8, cfg.Engine.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Engine.CallTimeout)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "file:runs.db", cfg.Store.DSN)
	assert.True(t, cfg.Store.Cache)

	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_MODEL", "custom")
	t.Setenv("LLM_BASE_URL", "http://localhost:8000/v1")
	cfg = fromEnv()
	assert.Equal(t, "openai", cfg.LLM.Client.Provider)
	assert.Equal(t, "custom", cfg.LLM.Client.Model)
	assert.Equal(t, "http://localhost:8000/v1", cfg.LLM.Client.BaseURL)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", firstNonEmpty())
}

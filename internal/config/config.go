// Package config loads runtime settings from .env and the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	llmclient "dirsight/internal/llm/client"
	"dirsight/internal/store"
)

type Config struct {
	LLM    LLMConfig
	Engine EngineConfig
	Store  store.Config
}

type LLMConfig struct {
	Client llmclient.Config
	// RPS and Burst configure the client-side rate limiter (0 disables it).
	RPS     float64
	Burst   int
	Retries int
}

type EngineConfig struct {
	Concurrency      int
	CallTimeout      time.Duration
	MaxFileChars     int
	MaxChildrenChars int
	MaxDepth         int
}

// Load reads .env (if present) and then the environment. Missing values
// fall back to defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv(), nil
}

func fromEnv() *Config {
	return &Config{
		LLM:    loadLLMConfig(),
		Engine: loadEngineConfig(),
		Store:  loadStoreConfig(),
	}
}

func loadLLMConfig() LLMConfig {
	provider := strings.ToLower(env("LLM_PROVIDER"))
	if provider == "" {
		switch {
		case env("GEMINI_API_KEY") != "":
			provider = "gemini"
		case env("OPENAI_API_KEY") != "":
			provider = "openai"
		case env("GROQ_API_KEY") != "":
			provider = "groq"
		default:
			provider = "fake"
		}
	}
	var key, model string
	switch provider {
	case "gemini":
		key, model = env("GEMINI_API_KEY"), "gemini-2.5-flash"
	case "openai":
		key, model = env("OPENAI_API_KEY"), "gpt-4o-mini"
	case "groq":
		key, model = env("GROQ_API_KEY"), "llama-3.1-8b-instant"
	}
	return LLMConfig{
		Client: llmclient.Config{
			Provider: provider,
			Model:    firstNonEmpty(env("LLM_MODEL"), model),
			APIKey:   firstNonEmpty(env("LLM_API_KEY"), key),
			BaseURL:  env("LLM_BASE_URL"),
			Timeout:  durationEnv("LLM_HTTP_TIMEOUT", 0),
		},
		RPS:     floatEnv("LLM_RPS", 0),
		Burst:   intEnv("LLM_BURST", 1),
		Retries: intEnv("LLM_RETRIES", 3),
	}
}

func loadEngineConfig() EngineConfig {
	return EngineConfig{
		Concurrency:      intEnv("DIRSIGHT_CONCURRENCY", 4),
		CallTimeout:      durationEnv("DIRSIGHT_CALL_TIMEOUT", 120*time.Second),
		MaxFileChars:     intEnv("DIRSIGHT_MAX_FILE_CHARS", 6000),
		MaxChildrenChars: intEnv("DIRSIGHT_MAX_CHILDREN_CHARS", 8000),
		MaxDepth:         intEnv("DIRSIGHT_MAX_DEPTH", 64),
	}
}

func loadStoreConfig() store.Config {
	return store.Config{
		Backend: firstNonEmpty(strings.ToLower(env("STORE_BACKEND")), "disk"),
		Dir:     firstNonEmpty(env("STORE_DIR"), defaultStoreDir()),
		DSN:     firstNonEmpty(env("STORE_DSN"), env("DATABASE_URL")),
		Cache:   boolEnv("STORE_CACHE", false),
		S3: store.S3Config{
			Endpoint:  env("ARTIFACT_S3_ENDPOINT"),
			Region:    firstNonEmpty(env("ARTIFACT_S3_REGION"), "us-east-1"),
			AccessKey: firstNonEmpty(env("ARTIFACT_S3_ACCESS_KEY"), env("MINIO_ROOT_USER")),
			SecretKey: firstNonEmpty(env("ARTIFACT_S3_SECRET_KEY"), env("MINIO_ROOT_PASSWORD")),
			Bucket:    firstNonEmpty(env("ARTIFACT_S3_BUCKET"), "dirsight-runs"),
			UseSSL:    boolEnv("ARTIFACT_S3_USE_SSL", true),
		},
	}
}

func defaultStoreDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "dirsight", "runs")
	}
	return filepath.Join(".dirsight", "runs")
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func intEnv(key string, def int) int {
	if n, err := strconv.Atoi(env(key)); err == nil {
		return n
	}
	return def
}

func floatEnv(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(env(key), 64); err == nil {
		return f
	}
	return def
}

func boolEnv(key string, def bool) bool {
	if b, err := strconv.ParseBool(env(key)); err == nil {
		return b
	}
	return def
}

// durationEnv accepts Go durations ("90s") or whole seconds ("90").
func durationEnv(key string, def time.Duration) time.Duration {
	raw := env(key)
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

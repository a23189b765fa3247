package llmclient

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Config selects and configures a provider.
type Config struct {
	Provider string // gemini | openai | groq | fake
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// New builds the client named by cfg.Provider.
func New(ctx context.Context, cfg Config) (LLMClient, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout)
	case "groq":
		base := cfg.BaseURL
		if base == "" {
			base = GroqBaseURL
		}
		return NewOpenAIClient(cfg.APIKey, cfg.Model, base, cfg.Timeout)
	case "fake", "":
		return NewFakeClient(), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

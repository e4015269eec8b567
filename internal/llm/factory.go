package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/common"
)

// DefaultProvider is used when no provider is configured.
const DefaultProvider = "gemini"

// Providers lists the supported provider names.
var Providers = []string{"gemini", "openai", "anthropic"}

// NewClient creates a chat client for the configured provider, throttled to
// cfg.RateLimit requests per minute.
func NewClient(cfg Config) (ChatClient, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = DefaultProvider
	}

	var (
		client ChatClient
		err    error
	)
	switch provider {
	case "gemini":
		client, err = newGeminiClient(cfg)
	case "openai":
		client, err = newOpenAIClient(cfg)
	case "anthropic":
		client, err = newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported chat provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return &limitedClient{next: client, limiter: newRateLimiter(cfg.RateLimit)}, nil
}

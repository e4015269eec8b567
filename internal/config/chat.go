package config

import (
	"os"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/llm"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/spf13/viper"
)

var providerKeyEnv = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// LoadChatConfig builds the chat client configuration. Settings made in the
// app (stored) are used when the config file and environment leave them
// empty. The API key is looked up in chat.api_key, then the provider's own
// variable (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY), then the
// stored key. An empty APIKey means the assistant runs offline.
func LoadChatConfig(v *viper.Viper, stored model.ChatConfig) llm.Config {
	provider := strings.ToLower(strings.TrimSpace(stored.Provider))
	if provider == "" || explicit(v, "chat.provider") {
		provider = strings.ToLower(strings.TrimSpace(v.GetString("chat.provider")))
	}
	if provider == "" {
		provider = llm.DefaultProvider
	}

	modelName := stored.Model
	if explicit(v, "chat.model") || modelName == "" {
		modelName = v.GetString("chat.model")
	}

	apiKey := v.GetString("chat.api_key")
	if apiKey == "" {
		apiKey = os.Getenv(providerKeyEnv[provider])
	}
	if apiKey == "" {
		apiKey = stored.APIKey
	}

	return llm.Config{
		Provider:    provider,
		APIKey:      apiKey,
		Model:       modelName,
		BaseURL:     v.GetString("chat.base_url"),
		MaxRetries:  v.GetInt("chat.max_retries"),
		RetryDelay:  v.GetDuration("chat.retry_delay"),
		Timeout:     v.GetDuration("chat.timeout"),
		RateLimit:   v.GetInt("chat.rate_limit"),
		Temperature: v.GetFloat64("chat.temperature"),
		MaxTokens:   v.GetInt("chat.max_tokens"),
	}
}

// explicit reports whether key was set by the config file or environment
// rather than by a default.
func explicit(v *viper.Viper, key string) bool {
	if v.InConfig(key) {
		return true
	}
	_, ok := os.LookupEnv(EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	return ok
}

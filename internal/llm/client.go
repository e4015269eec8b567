package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
)

// Role is the author of a conversation turn.
type Role string

// Conversation roles. Providers map these onto their own vocabulary.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of the conversation history.
type Turn struct {
	Role    Role
	Content string
}

// ChatRequest is a prompt plus the conversation leading up to it.
type ChatRequest struct {
	System  string
	Prompt  string
	History []Turn
}

// ChatClient generates a reply to a chat request.
type ChatClient interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Config configures a chat client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	Timeout     time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// statusError classifies a non-2xx provider response. Rate limiting and
// server errors are retryable; everything else is not.
func statusError(provider string, status int, body []byte) error {
	err := fmt.Errorf("%s API error (status %d): %s", provider, status, truncate(string(body), 300))
	switch {
	case status == http.StatusTooManyRequests:
		return &common.RetryableError{Err: fmt.Errorf("%w: %w", common.ErrRateLimit, err), Retryable: true}
	case status >= 500:
		return &common.RetryableError{Err: err, Retryable: true}
	default:
		return &common.RetryableError{Err: err, Retryable: false}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// lastTurns returns at most n trailing turns.
func lastTurns(history []Turn, n int) []Turn {
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}

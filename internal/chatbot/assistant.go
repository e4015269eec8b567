package chatbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/llm"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/store"
)

// HistoryTurns is how many previous messages accompany a question.
const HistoryTurns = 8

// Canned replies.
const (
	FallbackReply = "Sorry, I could not reach the assistant right now. Please try again later."
	EmptyReply    = "I could not generate a response."
)

// Greeting is the first message shown when the conversation is empty.
func Greeting(botName string) string {
	return fmt.Sprintf("Hi, I'm %s! Ask me anything about your spending or your savings goals.", botName)
}

// OfflineReply answers when no chat provider is configured.
func OfflineReply(botName string) string {
	return fmt.Sprintf("%s is in offline mode. Add a chat API key to get answers based on your finances.", botName)
}

// Conversation is the part of the store the assistant reads and appends to.
type Conversation interface {
	State() (store.State, error)
	AddChatMessage(ctx context.Context, role model.ChatRole, content string) (model.ChatMessage, error)
}

// Assistant relays user questions to a chat provider.
type Assistant struct {
	conv     Conversation
	client   llm.ChatClient
	logger   *slog.Logger
	provider string
	retry    common.RetryOptions
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithClient sets the chat provider. Without one the assistant answers with
// OfflineReply.
func WithClient(client llm.ChatClient, provider string) Option {
	return func(a *Assistant) {
		a.client = client
		a.provider = provider
	}
}

// WithRetryOptions overrides the retry policy for provider calls.
func WithRetryOptions(opts common.RetryOptions) Option {
	return func(a *Assistant) {
		a.retry = opts
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// NewAssistant creates an assistant over conv.
func NewAssistant(conv Conversation, opts ...Option) *Assistant {
	a := &Assistant{
		conv: conv,
		retry: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = common.OrDefault(a.logger)
	return a
}

// Online reports whether a chat provider is configured.
func (a *Assistant) Online() bool {
	return a.client != nil
}

// Greet posts the greeting if the conversation is empty. It reports whether
// a message was added.
func (a *Assistant) Greet(ctx context.Context) (bool, error) {
	st, err := a.conv.State()
	if err != nil {
		return false, err
	}
	if len(st.Messages) > 0 {
		return false, nil
	}
	if _, err := a.conv.AddChatMessage(ctx, model.RoleBot, Greeting(st.Chat.BotName)); err != nil {
		return false, err
	}
	return true, nil
}

// Send records the question, asks the provider and records the reply, which
// is returned. When the provider fails the fallback reply is recorded and a
// common.UserError is returned alongside it.
func (a *Assistant) Send(ctx context.Context, text string) (model.ChatMessage, error) {
	question := strings.TrimSpace(text)
	if question == "" {
		return model.ChatMessage{}, fmt.Errorf("%w: message must not be blank", common.ErrValidation)
	}

	st, err := a.conv.State()
	if err != nil {
		return model.ChatMessage{}, err
	}
	history := toTurns(st.Messages, HistoryTurns)
	summary := BuildContext(st.Chat.BotName, st.RecentExpenses(MaxContextItems), st.Goals, st.Achievements, st.Categories)

	if _, err := a.conv.AddChatMessage(ctx, model.RoleUser, question); err != nil {
		return model.ChatMessage{}, err
	}

	if a.client == nil {
		return a.conv.AddChatMessage(ctx, model.RoleBot, OfflineReply(st.Chat.BotName))
	}

	req := llm.ChatRequest{Prompt: Prompt(summary, question), History: history}
	var reply string
	err = common.WithRetry(ctx, func() error {
		out, err := a.client.Complete(ctx, req)
		if errors.Is(err, common.ErrEmptyReply) {
			out, err = "", nil
		}
		if err != nil {
			return err
		}
		reply = strings.TrimSpace(out)
		return nil
	}, a.retry)
	if err != nil {
		a.logger.Error("Chat request failed", "provider", a.provider, "error", err)
		msg, addErr := a.conv.AddChatMessage(ctx, model.RoleBot, FallbackReply)
		if addErr != nil {
			return model.ChatMessage{}, addErr
		}
		return msg, common.NewUserError(FallbackReply, err)
	}
	if reply == "" {
		reply = EmptyReply
	}
	return a.conv.AddChatMessage(ctx, model.RoleBot, reply)
}

func toTurns(messages []model.ChatMessage, n int) []llm.Turn {
	if len(messages) > n {
		messages = messages[len(messages)-n:]
	}
	turns := make([]llm.Turn, 0, len(messages))
	for _, m := range messages {
		role := llm.RoleUser
		if m.Role == model.RoleBot {
			role = llm.RoleAssistant
		}
		turns = append(turns, llm.Turn{Role: role, Content: m.Content})
	}
	return turns
}

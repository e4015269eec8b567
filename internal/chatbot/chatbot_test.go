package chatbot_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/chatbot"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/llm"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/Veraticus/expense-tracker/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

var fastRetry = common.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

type reply struct {
	err  error
	text string
}

type fakeClient struct {
	replies  []reply
	requests []llm.ChatRequest
	mu       sync.Mutex
}

func (f *fakeClient) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.text, r.err
}

func money(s string) model.Money {
	return decimal.RequireFromString(s)
}

func messages(t *testing.T, s *store.Store) []model.ChatMessage {
	t.Helper()
	st, err := s.State()
	require.NoError(t, err)
	return st.Messages
}

func TestBuildContextEmpty(t *testing.T) {
	want := "You are Penny, a friendly personal finance companion.\n\n" +
		"Recent expenses:\nNo expenses recorded yet.\n\n" +
		"Savings goals:\nNo savings goals created yet.\n\n" +
		"Unlocked achievements:\nNo achievements unlocked yet."

	assert.Equal(t, want, chatbot.BuildContext("Penny", nil, nil, nil, nil))
}

func TestBuildContext(t *testing.T) {
	categories := []model.Category{{ID: "c1", Name: "FastFood"}}
	expenses := []model.Expense{
		{ID: "e1", CategoryID: "c1", Amount: money("45.5"), Date: now, Note: "lunch"},
		{ID: "e2", CategoryID: "gone", Amount: money("1200"), Date: now.AddDate(0, 0, -1)},
	}
	for i := 0; i < 6; i++ {
		expenses = append(expenses, model.Expense{ID: fmt.Sprintf("x%d", i), CategoryID: "c1", Amount: money("1"), Date: now})
	}
	goals := []model.SavingsGoal{
		{ID: "g1", Name: "Laptop", CurrentAmount: money("250"), TargetAmount: money("1000")},
		{ID: "g2", Name: "Trip", CurrentAmount: money("600"), TargetAmount: money("500")},
	}
	achievements := []model.Achievement{
		{ID: "a1", Title: "First Steps", Category: model.AchievementTracking, IsUnlocked: true},
		{ID: "a2", Title: "Tracker Pro", Category: model.AchievementTracking},
	}

	got := chatbot.BuildContext("Coach", expenses, goals, achievements, categories)

	assert.True(t, strings.HasPrefix(got, "You are Coach, a friendly personal finance companion.\n\nRecent expenses:\n"))
	assert.Contains(t, got, "- Mar 20, 2024 • EGP 45.50 • FastFood • Note: lunch\n")
	assert.Contains(t, got, "- Mar 19, 2024 • EGP 1,200.00 • Unknown\n")
	assert.Contains(t, got, "- Laptop: EGP 250.00 / EGP 1,000.00 (25%)")
	assert.Contains(t, got, "- Trip: EGP 600.00 / EGP 500.00 (100%)")
	assert.Contains(t, got, "Unlocked achievements:\n- First Steps (tracking)")
	assert.NotContains(t, got, "Tracker Pro")
	assert.Equal(t, chatbot.MaxContextItems, strings.Count(got, " • EGP "))
}

func TestPrompt(t *testing.T) {
	assert.Equal(t, "Context:\nctx\n\nUser question:\nhow much?", chatbot.Prompt("ctx", "how much?"))
}

func TestSendOffline(t *testing.T) {
	s, _, _ := testutil.NewStore(t, now)
	a := chatbot.NewAssistant(s)

	msg, err := a.Send(context.Background(), "  how am I doing?  ")
	require.NoError(t, err)

	assert.False(t, a.Online())
	assert.Equal(t, model.RoleBot, msg.Role)
	assert.Equal(t, chatbot.OfflineReply("Penny"), msg.Content)

	history := messages(t, s)
	require.Len(t, history, 2)
	assert.Equal(t, model.RoleUser, history[0].Role)
	assert.Equal(t, "how am I doing?", history[0].Content)
	assert.Equal(t, msg, history[1])
}

func TestSendOnline(t *testing.T) {
	ctx := context.Background()
	s, _, _ := testutil.NewStore(t, now)
	_, err := s.AddExpense(ctx, model.ExpenseInput{Date: now, CategoryID: "default-0", Amount: money("45.50")})
	require.NoError(t, err)
	_, err = s.AddChatMessage(ctx, model.RoleBot, "Hello!")
	require.NoError(t, err)

	client := &fakeClient{replies: []reply{{text: "  You spent EGP 45.50.  "}}}
	a := chatbot.NewAssistant(s, chatbot.WithClient(client, "gemini"), chatbot.WithRetryOptions(fastRetry))

	msg, err := a.Send(ctx, "What did I spend?")
	require.NoError(t, err)
	assert.Equal(t, "You spent EGP 45.50.", msg.Content)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, []llm.Turn{{Role: llm.RoleAssistant, Content: "Hello!"}}, req.History)
	assert.True(t, strings.HasPrefix(req.Prompt, "Context:\nYou are Penny"))
	assert.Contains(t, req.Prompt, "FastFood")
	assert.Contains(t, req.Prompt, "- First Steps (tracking)")
	assert.True(t, strings.HasSuffix(req.Prompt, "\n\nUser question:\nWhat did I spend?"))

	history := messages(t, s)
	require.Len(t, history, 3)
	assert.Equal(t, "What did I spend?", history[1].Content)
	assert.Equal(t, msg, history[2])
}

func TestSendSendsRecentHistoryOnly(t *testing.T) {
	ctx := context.Background()
	s, _, _ := testutil.NewStore(t, now)
	for i := 0; i < 12; i++ {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleBot
		}
		_, err := s.AddChatMessage(ctx, role, fmt.Sprintf("m%d", i))
		require.NoError(t, err)
	}

	client := &fakeClient{replies: []reply{{text: "ok"}}}
	a := chatbot.NewAssistant(s, chatbot.WithClient(client, "openai"), chatbot.WithRetryOptions(fastRetry))
	_, err := a.Send(ctx, "next")
	require.NoError(t, err)

	history := client.requests[0].History
	require.Len(t, history, chatbot.HistoryTurns)
	assert.Equal(t, llm.Turn{Role: llm.RoleUser, Content: "m4"}, history[0])
	assert.Equal(t, llm.Turn{Role: llm.RoleAssistant, Content: "m11"}, history[7])
}

func TestSendFailures(t *testing.T) {
	tests := []struct {
		name      string
		replies   []reply
		wantReply string
		wantCalls int
		wantErr   bool
	}{
		{
			name:      "permanent error records fallback",
			replies:   []reply{{err: &common.RetryableError{Err: errors.New("bad request"), Retryable: false}}},
			wantReply: chatbot.FallbackReply,
			wantCalls: 1,
			wantErr:   true,
		},
		{
			name: "transient error is retried",
			replies: []reply{
				{err: &common.RetryableError{Err: errors.New("unavailable"), Retryable: true}},
				{text: "recovered"},
			},
			wantReply: "recovered",
			wantCalls: 2,
		},
		{
			name: "retries exhausted",
			replies: []reply{
				{err: errors.New("down")}, {err: errors.New("down")}, {err: errors.New("down")},
			},
			wantReply: chatbot.FallbackReply,
			wantCalls: 3,
			wantErr:   true,
		},
		{
			name:      "blank reply",
			replies:   []reply{{text: "   "}},
			wantReply: chatbot.EmptyReply,
			wantCalls: 1,
		},
		{
			name:      "provider reports no content",
			replies:   []reply{{err: common.ErrEmptyReply}},
			wantReply: chatbot.EmptyReply,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := testutil.NewStore(t, now)
			client := &fakeClient{replies: tt.replies}
			a := chatbot.NewAssistant(s, chatbot.WithClient(client, "gemini"), chatbot.WithRetryOptions(fastRetry))

			msg, err := a.Send(context.Background(), "hi")
			if tt.wantErr {
				var userErr *common.UserError
				require.ErrorAs(t, err, &userErr)
				assert.Equal(t, chatbot.FallbackReply, userErr.UserMessage)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantReply, msg.Content)
			assert.Len(t, client.requests, tt.wantCalls)

			history := messages(t, s)
			require.Len(t, history, 2)
			assert.Equal(t, tt.wantReply, history[1].Content)
		})
	}
}

func TestSendRejectsBlankMessage(t *testing.T) {
	s, _, _ := testutil.NewStore(t, now)
	a := chatbot.NewAssistant(s)

	_, err := a.Send(context.Background(), "   ")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, messages(t, s))
}

func TestSendBeforeHydrate(t *testing.T) {
	a := chatbot.NewAssistant(store.New(testutil.NewMemorySnapshots()))

	_, err := a.Send(context.Background(), "hi")
	require.ErrorIs(t, err, common.ErrNotReady)
}

func TestGreet(t *testing.T) {
	ctx := context.Background()
	s, _, _ := testutil.NewStore(t, now)
	require.NoError(t, s.SetChatConfig(ctx, model.ChatConfig{BotName: "Coach"}))
	a := chatbot.NewAssistant(s)

	added, err := a.Greet(ctx)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = a.Greet(ctx)
	require.NoError(t, err)
	assert.False(t, added)

	history := messages(t, s)
	require.Len(t, history, 1)
	assert.Equal(t, chatbot.Greeting("Coach"), history[0].Content)
}

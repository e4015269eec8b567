package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/api"
	"github.com/Veraticus/expense-tracker/internal/chatbot"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/Veraticus/expense-tracker/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()
	s, _, _ := testutil.NewStore(t, now)
	return api.NewServer(s, chatbot.NewAssistant(s), nil).Handler(), s
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func money(s string) model.Money {
	return decimal.RequireFromString(s)
}

func TestHealth(t *testing.T) {
	h, _ := newServer(t)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	notReady := api.NewServer(store.New(testutil.NewMemorySnapshots()), nil, nil).Handler()
	rec = do(t, notReady, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNotReadyState(t *testing.T) {
	h := api.NewServer(store.New(testutil.NewMemorySnapshots()), nil, nil).Handler()

	rec := do(t, h, http.MethodGet, "/api/v1/state", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestExpenses(t *testing.T) {
	h, _ := newServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid expense",
			body:       `{"amount": 45.5, "categoryId": "default-0", "date": "2024-03-19", "note": "  lunch   with team "}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "amount as string",
			body:       `{"amount": "12.345", "categoryId": "default-1", "date": "2024-02-10"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "zero amount",
			body:       `{"amount": 0, "categoryId": "default-0", "date": "2024-03-19"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "future date",
			body:       `{"amount": 5, "categoryId": "default-0", "date": "2024-03-22"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad date",
			body:       `{"amount": 5, "categoryId": "default-0", "date": "19/03/2024"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing category",
			body:       `{"amount": 5, "date": "2024-03-19"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown category",
			body:       `{"amount": 5, "categoryId": "nope", "date": "2024-03-19"}`,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "malformed json",
			body:       `{"amount":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/expenses", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	all := decode[[]model.Expense](t, do(t, h, http.MethodGet, "/api/v1/expenses", ""))
	require.Len(t, all, 2)
	assert.Equal(t, "lunch with team", all[0].Note)
	assert.True(t, all[1].Amount.Equal(money("12.35")))

	march := decode[[]model.Expense](t, do(t, h, http.MethodGet, "/api/v1/expenses?month=2024-03", ""))
	require.Len(t, march, 1)

	limited := decode[[]model.Expense](t, do(t, h, http.MethodGet, "/api/v1/expenses?limit=1", ""))
	require.Len(t, limited, 1)

	byCategory := decode[[]model.Expense](t, do(t, h, http.MethodGet, "/api/v1/expenses?category=default-1", ""))
	require.Len(t, byCategory, 1)

	rec := do(t, h, http.MethodGet, "/api/v1/expenses?month=March", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/expenses/"+all[0].ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/v1/expenses/"+all[0].ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategories(t *testing.T) {
	h, s := newServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/categories", `{"name": "Pets", "icon": "Heart", "color": "#FF00AA"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.Category](t, rec)
	assert.False(t, created.IsDefault)

	rec = do(t, h, http.MethodPost, "/api/v1/categories", `{"name": "pets"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/categories", `{"name": "Gadgets"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	gadgets := decode[model.Category](t, rec)
	assert.Equal(t, model.IconMoreHorizontal, gadgets.Icon)
	assert.Equal(t, model.DefaultCategoryColor, gadgets.Color)

	rec = do(t, h, http.MethodDelete, "/api/v1/categories/default-0", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	_, err := s.AddExpense(context.Background(), model.ExpenseInput{Date: now, CategoryID: created.ID, Amount: money("10")})
	require.NoError(t, err)
	rec = do(t, h, http.MethodDelete, "/api/v1/categories/"+created.ID, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/categories/"+gadgets.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	list := decode[[]model.Category](t, do(t, h, http.MethodGet, "/api/v1/categories", ""))
	assert.Len(t, list, 9)
}

func TestBudgets(t *testing.T) {
	h, s := newServer(t)

	rec := do(t, h, http.MethodPut, "/api/v1/budgets", `{"categoryId": "default-0", "monthlyLimit": 100}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[model.Budget](t, rec)
	assert.Equal(t, api.DefaultAlertThreshold, saved.AlertThreshold)

	rec = do(t, h, http.MethodPut, "/api/v1/budgets", `{"categoryId": "default-0", "monthlyLimit": 100, "alertThreshold": 150}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, err := s.AddExpense(context.Background(), model.ExpenseInput{Date: now, CategoryID: "default-0", Amount: money("90")})
	require.NoError(t, err)

	var status struct {
		Month    string `json:"month"`
		Statuses []struct {
			CategoryID  string `json:"categoryId"`
			Percentage  int    `json:"percentage"`
			IsNearLimit bool   `json:"isNearLimit"`
		} `json:"statuses"`
	}
	rec = do(t, h, http.MethodGet, "/api/v1/budgets/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "2024-03", status.Month)
	require.Len(t, status.Statuses, 1)
	assert.Equal(t, 90, status.Statuses[0].Percentage)
	assert.True(t, status.Statuses[0].IsNearLimit)

	rec = do(t, h, http.MethodGet, "/api/v1/budgets/status?month=2024-02", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 0, status.Statuses[0].Percentage)

	rec = do(t, h, http.MethodGet, "/api/v1/budgets/status?month=2024-13", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoalsAndOverflowDeposit(t *testing.T) {
	h, s := newServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/goals", `{"name": "Laptop", "targetAmount": 1000, "initialAmount": 900, "deadline": "2024-06-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	laptop := decode[model.SavingsGoal](t, rec)
	require.NotNil(t, laptop.Deadline)

	rec = do(t, h, http.MethodPost, "/api/v1/goals", `{"name": "Trip", "targetAmount": 500}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	trip := decode[model.SavingsGoal](t, rec)

	rec = do(t, h, http.MethodPost, "/api/v1/goals", `{"name": "Bad", "targetAmount": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/goals/"+trip.ID+"/deposit", `{"amount": 50}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/goals/"+laptop.ID+"/deposit", `{"amount": 300}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"overflow":"200"`)

	rec = do(t, h, http.MethodPost, "/api/v1/goals/"+trip.ID+"/deposit", `{"amount": 10}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/deposits/resolve", `{"choice": "move"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/deposits/resolve", `{"choice": "move", "destinationId": "`+trip.ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	st, err := s.State()
	require.NoError(t, err)
	got, _ := st.Goal(laptop.ID)
	assert.True(t, got.CurrentAmount.Equal(money("1000")))
	got, _ = st.Goal(trip.ID)
	assert.True(t, got.CurrentAmount.Equal(money("250")))

	rec = do(t, h, http.MethodDelete, "/api/v1/deposits/pending", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/goals/missing/deposit", `{"amount": 10}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelPendingDeposit(t *testing.T) {
	h, s := newServer(t)
	ctx := context.Background()
	a, err := s.AddSavingsGoal(ctx, model.SavingsGoalInput{Name: "A", TargetAmount: money("100")})
	require.NoError(t, err)
	_, err = s.AddSavingsGoal(ctx, model.SavingsGoalInput{Name: "B", TargetAmount: money("100")})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/v1/goals/"+a.ID+"/deposit", `{"amount": 150}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/deposits/pending", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	st, err := s.State()
	require.NoError(t, err)
	assert.Nil(t, st.Pending)
	got, _ := st.Goal(a.ID)
	assert.True(t, got.CurrentAmount.IsZero())
}

func TestAchievementsAndReminders(t *testing.T) {
	h, s := newServer(t)
	ctx := context.Background()
	_, err := s.AddExpense(ctx, model.ExpenseInput{Date: now, CategoryID: "default-0", Amount: money("120")})
	require.NoError(t, err)
	_, err = s.SetBudget(ctx, "default-0", money("100"), 80)
	require.NoError(t, err)

	unlocked := decode[[]model.Achievement](t, do(t, h, http.MethodGet, "/api/v1/achievements?unlocked=true", ""))
	require.NotEmpty(t, unlocked)
	assert.Equal(t, "first_expense", unlocked[0].ID)

	all := decode[[]model.Achievement](t, do(t, h, http.MethodGet, "/api/v1/achievements", ""))
	assert.Len(t, all, 10)

	var body struct {
		Reminders []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"reminders"`
		Enabled bool `json:"enabled"`
	}
	rec := do(t, h, http.MethodGet, "/api/v1/reminders", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Enabled)
	require.Len(t, body.Reminders, 1)
	assert.Equal(t, "budget-over-default-0", body.Reminders[0].ID)
}

func TestChatOffline(t *testing.T) {
	h, s := newServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/chat", `{"message": "How am I doing?"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	msg := decode[model.ChatMessage](t, rec)
	assert.Equal(t, model.RoleBot, msg.Role)
	assert.Equal(t, chatbot.OfflineReply(model.DefaultBotName), msg.Content)

	st, err := s.State()
	require.NoError(t, err)
	assert.Len(t, st.Messages, 2)

	rec = do(t, h, http.MethodPost, "/api/v1/chat", `{"message": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	h, s := newServer(t)
	_, err := s.AddExpense(context.Background(), model.ExpenseInput{
		Date:       time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
		CategoryID: "default-0",
		Amount:     money("45.5"),
		Note:       `say "hi"`,
	})
	require.NoError(t, err)

	rec := do(t, h, http.MethodGet, "/api/v1/export.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="expenses-`+strconvMillis(now)+`.csv"`, rec.Header().Get("Content-Disposition"))
	lines := strings.Split(rec.Body.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"Date","Category","Amount","Note"`, lines[0])
	assert.Contains(t, lines[1], `"Mar 02, 2024"`)
	assert.Contains(t, lines[1], `"say ""hi"""`)

	rec = do(t, h, http.MethodGet, "/api/v1/export.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var expenses []model.Expense
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&expenses))
	assert.Len(t, expenses, 1)
}

func strconvMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func TestState(t *testing.T) {
	h, _ := newServer(t)

	var body map[string]json.RawMessage
	rec := do(t, h, http.MethodGet, "/api/v1/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	for _, key := range []string{"expenses", "categories", "savingsGoals", "achievements", "userStats", "reminders"} {
		assert.Contains(t, body, key)
	}
	assert.Equal(t, "null", string(body["pendingDeposit"]))
}

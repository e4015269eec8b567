// Package api exposes the expense tracker over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/savings"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/gin-gonic/gin"
)

// Backend is the state store the handlers read and mutate.
type Backend interface {
	State() (store.State, error)
	Now() time.Time
	IsReady() bool
	AddExpense(ctx context.Context, in model.ExpenseInput) (model.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	AddCategory(ctx context.Context, name string, icon model.Icon, color string) (model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	SetBudget(ctx context.Context, categoryID string, limit model.Money, threshold int) (model.Budget, error)
	AddSavingsGoal(ctx context.Context, in model.SavingsGoalInput) (model.SavingsGoal, error)
	Deposit(ctx context.Context, goalID string, amount model.Money) (store.DepositOutcome, error)
	ResolveDeposit(ctx context.Context, pendingID string, choice savings.Choice, destinationID string) (savings.Result, error)
	CancelDeposit(ctx context.Context) error
}

// Assistant answers chat questions.
type Assistant interface {
	Send(ctx context.Context, text string) (model.ChatMessage, error)
}

// Server holds the handler dependencies.
type Server struct {
	backend   Backend
	assistant Assistant
	logger    *slog.Logger
}

// NewServer creates the HTTP handlers.
func NewServer(backend Backend, assistant Assistant, logger *slog.Logger) *Server {
	return &Server{
		backend:   backend,
		assistant: assistant,
		logger:    common.OrDefault(logger),
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(s.requestLogger(), gin.Recovery())

	router.GET("/healthz", s.health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/state", s.getState)

		v1.GET("/expenses", s.listExpenses)
		v1.POST("/expenses", s.addExpense)
		v1.DELETE("/expenses/:id", s.deleteExpense)

		v1.GET("/categories", s.listCategories)
		v1.POST("/categories", s.addCategory)
		v1.DELETE("/categories/:id", s.deleteCategory)

		v1.PUT("/budgets", s.setBudget)
		v1.GET("/budgets/status", s.budgetStatus)

		v1.POST("/goals", s.addGoal)
		v1.POST("/goals/:id/deposit", s.deposit)
		v1.POST("/deposits/resolve", s.resolveDeposit)
		v1.DELETE("/deposits/pending", s.cancelDeposit)

		v1.GET("/achievements", s.listAchievements)
		v1.GET("/reminders", s.listReminders)
		v1.POST("/chat", s.chat)

		v1.GET("/export.csv", s.exportCSV)
		v1.GET("/export.json", s.exportJSON)
	}
	return router
}

// Handler returns the router as a plain http.Handler.
func (s *Server) Handler() http.Handler {
	return s.Router()
}

// Serve runs an HTTP server on addr until ctx is canceled, then shuts it
// down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// writeError maps domain errors onto status codes.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case common.IsPolicyViolation(err), errors.Is(err, common.ErrDuplicateEntry):
		status = http.StatusConflict
	case errors.Is(err, common.ErrNotReady):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) health(c *gin.Context) {
	if !s.backend.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

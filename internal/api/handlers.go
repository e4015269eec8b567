package api

import (
	"bytes"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/export"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/reminder"
	"github.com/Veraticus/expense-tracker/internal/report"
	"github.com/Veraticus/expense-tracker/internal/savings"
	"github.com/Veraticus/expense-tracker/internal/validate"
	"github.com/gin-gonic/gin"
)

func (s *Server) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%v: %v", common.ErrValidation, err)})
		return false
	}
	return true
}

func (s *Server) getState(c *gin.Context) {
	st, err := s.backend.State()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"expenses":       st.Expenses,
		"incomes":        st.Incomes,
		"debts":          st.Debts,
		"categories":     st.Categories,
		"budgets":        st.Budgets,
		"savingsGoals":   st.Goals,
		"achievements":   st.Achievements,
		"chatMessages":   st.Messages,
		"userStats":      st.Stats,
		"reminders":      st.Reminders,
		"onboarding":     st.Onboarding,
		"pendingDeposit": st.Pending,
	})
}

func (s *Server) listExpenses(c *gin.Context) {
	st, err := s.backend.State()
	if err != nil {
		s.writeError(c, err)
		return
	}

	expenses := st.RecentExpenses(len(st.Expenses))
	if month := c.Query("month"); month != "" {
		m, err := model.ParseMonth(month, s.backend.Now().Location())
		if err != nil {
			s.writeError(c, validate.Errorf("month must be in YYYY-MM format"))
			return
		}
		expenses = report.FilterByMonth(expenses, m)
	}
	expenses = report.FilterByCategory(expenses, c.Query("category"))
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			s.writeError(c, validate.Errorf("limit must be a non-negative number"))
			return
		}
		if n < len(expenses) {
			expenses = expenses[:n]
		}
	}
	c.JSON(http.StatusOK, expenses)
}

func (s *Server) addExpense(c *gin.Context) {
	var req expenseRequest
	if !s.bind(c, &req) {
		return
	}
	date, err := model.ParseDate(req.Date, s.backend.Now().Location())
	if err != nil {
		s.writeError(c, validate.Errorf("date must be in YYYY-MM-DD format"))
		return
	}

	expense, err := s.backend.AddExpense(c.Request.Context(), model.ExpenseInput{
		Date:       date,
		CategoryID: req.CategoryID,
		Note:       req.Note,
		Amount:     req.Amount,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (s *Server) deleteExpense(c *gin.Context) {
	if err := s.backend.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listCategories(c *gin.Context) {
	st, err := s.backend.State()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st.Categories)
}

func (s *Server) addCategory(c *gin.Context) {
	var req categoryRequest
	if !s.bind(c, &req) {
		return
	}
	if req.Icon == "" {
		req.Icon = model.IconMoreHorizontal
	}
	if req.Color == "" {
		req.Color = model.DefaultCategoryColor
	}

	st, err := s.backend.State()
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := validate.Category(req.Name, req.Icon, req.Color, st.Categories, ""); err != nil {
		s.writeError(c, err)
		return
	}

	created, err := s.backend.AddCategory(c.Request.Context(), req.Name, req.Icon, req.Color)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) deleteCategory(c *gin.Context) {
	if err := s.backend.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) setBudget(c *gin.Context) {
	var req budgetRequest
	if !s.bind(c, &req) {
		return
	}
	threshold := DefaultAlertThreshold
	if req.AlertThreshold != nil {
		threshold = *req.AlertThreshold
	}

	saved, err := s.backend.SetBudget(c.Request.Context(), req.CategoryID, req.MonthlyLimit, threshold)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) budgetStatus(c *gin.Context) {
	now := s.backend.Now()
	month := now
	if key := c.Query("month"); key != "" {
		m, err := model.ParseMonth(key, now.Location())
		if err != nil {
			s.writeError(c, validate.Errorf("month must be in YYYY-MM format"))
			return
		}
		month = m
	}

	st, err := s.backend.State()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"month":       month.Format(model.MonthLayout),
		"statuses":    st.BudgetStatuses(month),
		"healthScore": st.HealthScore(month),
	})
}

func (s *Server) addGoal(c *gin.Context) {
	var req goalRequest
	if !s.bind(c, &req) {
		return
	}

	in := model.SavingsGoalInput{
		Name:          req.Name,
		Icon:          req.Icon,
		Color:         req.Color,
		TargetAmount:  req.TargetAmount,
		InitialAmount: req.InitialAmount,
	}
	if req.Deadline != "" {
		d, err := model.ParseDate(req.Deadline, s.backend.Now().Location())
		if err != nil {
			s.writeError(c, validate.Errorf("deadline must be in YYYY-MM-DD format"))
			return
		}
		in.Deadline = &d
	}

	goal, err := s.backend.AddSavingsGoal(c.Request.Context(), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goal)
}

// deposit answers 200 with the result when the deposit was applied and 202
// with the pending deposit when the user must choose where the overflow goes.
func (s *Server) deposit(c *gin.Context) {
	var req depositRequest
	if !s.bind(c, &req) {
		return
	}

	out, err := s.backend.Deposit(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if out.Pending != nil {
		c.JSON(http.StatusAccepted, gin.H{"pending": out.Pending})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out.Result})
}

func (s *Server) resolveDeposit(c *gin.Context) {
	var req resolveRequest
	if !s.bind(c, &req) {
		return
	}
	choice, err := savings.ParseChoice(req.Choice)
	if err != nil {
		s.writeError(c, err)
		return
	}

	res, err := s.backend.ResolveDeposit(c.Request.Context(), req.PendingID, choice, req.DestinationID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) cancelDeposit(c *gin.Context) {
	if err := s.backend.CancelDeposit(c.Request.Context()); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listAchievements(c *gin.Context) {
	st, err := s.backend.State()
	if err != nil {
		s.writeError(c, err)
		return
	}
	achievements := slices.Clone(st.Achievements)
	if c.Query("unlocked") == "true" {
		achievements = st.UnlockedAchievements()
	}
	c.JSON(http.StatusOK, achievements)
}

func (s *Server) listReminders(c *gin.Context) {
	st, err := s.backend.State()
	if err != nil {
		s.writeError(c, err)
		return
	}
	active := reminder.Active(reminder.Evaluate(st, s.backend.Now()), st.Reminders)
	if active == nil {
		active = []reminder.Reminder{}
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled":   st.Reminders.Enabled,
		"reminders": active,
	})
}

// chat always answers with the recorded bot message. When the provider
// failed that message is the fallback reply.
func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if !s.bind(c, &req) {
		return
	}

	msg, err := s.assistant.Send(c.Request.Context(), req.Message)
	if err != nil && msg.ID == "" {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (s *Server) exportCSV(c *gin.Context) {
	st, err := s.backend.State()
	if err != nil {
		s.writeError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.CSV(&buf, st.Expenses, st.Categories); err != nil {
		s.writeError(c, err)
		return
	}
	s.attachment(c, export.FormatCSV, buf.Bytes())
}

func (s *Server) exportJSON(c *gin.Context) {
	st, err := s.backend.State()
	if err != nil {
		s.writeError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.JSON(&buf, st.Expenses); err != nil {
		s.writeError(c, err)
		return
	}
	s.attachment(c, export.FormatJSON, buf.Bytes())
}

func (s *Server) attachment(c *gin.Context, format string, data []byte) {
	name := export.Filename(format, s.backend.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, export.ContentType(format), data)
}

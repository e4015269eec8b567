// Package chatbot implements the finance assistant: it summarizes the
// tracker state into a prompt context and relays questions to a chat
// provider, recording both sides of the conversation in the store.
package chatbot

import (
	"fmt"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/category"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/report"
	"github.com/Veraticus/expense-tracker/internal/savings"
)

// MaxContextItems caps each section of the prompt context.
const MaxContextItems = 5

// BuildContext summarizes the most recent expenses, the savings goals and
// the unlocked achievements for the assistant. expenses should already be
// ordered newest first.
func BuildContext(botName string, expenses []model.Expense, goals []model.SavingsGoal, achievements []model.Achievement, categories []model.Category) string {
	var recent []string
	for _, e := range expenses {
		if len(recent) == MaxContextItems {
			break
		}
		line := fmt.Sprintf("- %s • %s • %s",
			report.FormatDate(e.Date), report.FormatCurrency(e.Amount), category.Name(categories, e.CategoryID))
		if e.Note != "" {
			line += " • Note: " + e.Note
		}
		recent = append(recent, line)
	}

	var goalLines []string
	for _, g := range goals {
		if len(goalLines) == MaxContextItems {
			break
		}
		goalLines = append(goalLines, fmt.Sprintf("- %s: %s / %s (%d%%)",
			g.Name, report.FormatCurrency(g.CurrentAmount), report.FormatCurrency(g.TargetAmount),
			savings.Progress(g.CurrentAmount, g.TargetAmount)))
	}

	var unlocked []string
	for _, a := range achievements {
		if len(unlocked) == MaxContextItems {
			break
		}
		if a.IsUnlocked {
			unlocked = append(unlocked, fmt.Sprintf("- %s (%s)", a.Title, a.Category))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a friendly personal finance companion.\n\n", botName)
	section(&b, "Recent expenses:", recent, "No expenses recorded yet.")
	b.WriteString("\n\n")
	section(&b, "Savings goals:", goalLines, "No savings goals created yet.")
	b.WriteString("\n\n")
	section(&b, "Unlocked achievements:", unlocked, "No achievements unlocked yet.")
	return b.String()
}

func section(b *strings.Builder, title string, lines []string, empty string) {
	b.WriteString(title)
	b.WriteByte('\n')
	if len(lines) == 0 {
		b.WriteString(empty)
		return
	}
	b.WriteString(strings.Join(lines, "\n"))
}

// Prompt wraps a user question with the state context.
func Prompt(context, question string) string {
	return "Context:\n" + context + "\n\nUser question:\n" + question
}

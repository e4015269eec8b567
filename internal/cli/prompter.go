package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/report"
	"github.com/Veraticus/expense-tracker/internal/savings"
)

// ErrInputTerminated is returned when input ends before a valid answer.
var ErrInputTerminated = errors.New("input terminated")

// OverflowDecision is the user's answer to an overflowing deposit. When
// Cancel is set Choice and DestinationID are empty.
type OverflowDecision struct {
	Choice        savings.Choice
	DestinationID string
	Cancel        bool
}

// Prompter asks the user questions on a terminal.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a prompter. Nil arguments fall back to stdin and
// stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// ResolveOverflow explains a pending deposit that would exceed its goal and
// asks whether to keep the overflow, move it to another goal or cancel.
func (p *Prompter) ResolveOverflow(ctx context.Context, pending savings.Pending, goals []model.SavingsGoal) (OverflowDecision, error) {
	goal := goalByID(goals, pending.GoalID)
	var candidates []model.SavingsGoal
	for _, id := range pending.CandidateIDs {
		if g := goalByID(goals, id); g.ID != "" {
			candidates = append(candidates, g)
		}
	}

	content := fmt.Sprintf("Depositing %s into %s goes %s over its target of %s.",
		BoldStyle.Render(report.FormatCurrency(pending.Amount)),
		BoldStyle.Render(goal.Name),
		WarningStyle.Render(report.FormatCurrency(pending.Overflow)),
		report.FormatCurrency(goal.TargetAmount),
	)
	if _, err := fmt.Fprintln(p.writer, RenderBox("Goal target exceeded", content)); err != nil {
		return OverflowDecision{}, fmt.Errorf("failed to write deposit box: %w", err)
	}

	lines := []string{
		FormatPrompt("What should happen to the extra amount?"),
		fmt.Sprintf("  [K] Keep all of it in %s", goal.Name),
	}
	validChoices := []string{"k", "c"}
	if len(candidates) > 0 {
		lines = append(lines, fmt.Sprintf("  [M] Move %s to another goal", report.FormatCurrency(pending.Overflow)))
		validChoices = append(validChoices, "m")
	}
	lines = append(lines, "  [C] Cancel the deposit", "")
	if _, err := fmt.Fprintln(p.writer, strings.Join(lines, "\n")); err != nil {
		return OverflowDecision{}, fmt.Errorf("failed to write options: %w", err)
	}

	choice, err := p.promptChoice(ctx, "Choice", validChoices)
	if err != nil {
		return OverflowDecision{}, err
	}

	switch choice {
	case "k":
		return OverflowDecision{Choice: savings.ChoiceKeep}, nil
	case "m":
		dest, err := p.promptGoal(ctx, candidates)
		if err != nil {
			return OverflowDecision{}, err
		}
		return OverflowDecision{Choice: savings.ChoiceMove, DestinationID: dest.ID}, nil
	default:
		return OverflowDecision{Cancel: true}, nil
	}
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	if _, err := fmt.Fprintf(p.writer, "%s ", FormatPrompt(question+" [y/N]")); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	answer, err := p.readLine(ctx)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

func (p *Prompter) promptGoal(ctx context.Context, candidates []model.SavingsGoal) (model.SavingsGoal, error) {
	for i, g := range candidates {
		line := fmt.Sprintf("  [%d] %s %s",
			i+1, g.Name,
			SubtleStyle.Render(fmt.Sprintf("(%s / %s)", report.FormatCurrency(g.CurrentAmount), report.FormatCurrency(g.TargetAmount))))
		if _, err := fmt.Fprintln(p.writer, line); err != nil {
			return model.SavingsGoal{}, fmt.Errorf("failed to write goal option: %w", err)
		}
	}

	valid := make([]string, len(candidates))
	for i := range candidates {
		valid[i] = strconv.Itoa(i + 1)
	}
	choice, err := p.promptChoice(ctx, "Move to goal", valid)
	if err != nil {
		return model.SavingsGoal{}, err
	}
	n, _ := strconv.Atoi(choice)
	return candidates[n-1], nil
}

func (p *Prompter) promptChoice(ctx context.Context, prompt string, validChoices []string) (string, error) {
	for {
		if _, err := fmt.Fprintf(p.writer, "%s ", FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(input)
		if slices.Contains(validChoices, choice) {
			return choice, nil
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Invalid choice. Please try again.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	line, err := p.reader.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", ErrInputTerminated
	}
	return line, err
}

func goalByID(goals []model.SavingsGoal, id string) model.SavingsGoal {
	for _, g := range goals {
		if g.ID == id {
			return g
		}
	}
	return model.SavingsGoal{}
}

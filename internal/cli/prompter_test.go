package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/savings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overflowFixture() (savings.Pending, []model.SavingsGoal) {
	goals := []model.SavingsGoal{
		{ID: "laptop", Name: "Laptop", TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.NewFromInt(900)},
		{ID: "trip", Name: "Trip", TargetAmount: decimal.NewFromInt(500), CurrentAmount: decimal.NewFromInt(100)},
		{ID: "car", Name: "Car", TargetAmount: decimal.NewFromInt(9000), CurrentAmount: model.Zero},
	}
	pending := savings.Pending{
		ID:           "p1",
		GoalID:       "laptop",
		CandidateIDs: []string{"trip", "car"},
		Amount:       decimal.NewFromInt(300),
		Overflow:     decimal.NewFromInt(200),
	}
	return pending, goals
}

func TestResolveOverflow(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  OverflowDecision
	}{
		{
			name:  "keep",
			input: "k\n",
			want:  OverflowDecision{Choice: savings.ChoiceKeep},
		},
		{
			name:  "move to second candidate",
			input: "M\n2\n",
			want:  OverflowDecision{Choice: savings.ChoiceMove, DestinationID: "car"},
		},
		{
			name:  "cancel",
			input: "c\n",
			want:  OverflowDecision{Cancel: true},
		},
		{
			name:  "retries invalid input",
			input: "x\nm\n9\n1\n",
			want:  OverflowDecision{Choice: savings.ChoiceMove, DestinationID: "trip"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pending, goals := overflowFixture()
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.ResolveOverflow(context.Background(), pending, goals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Laptop")
			assert.Contains(t, out.String(), "EGP 200.00")
		})
	}
}

func TestResolveOverflowListsCandidates(t *testing.T) {
	pending, goals := overflowFixture()
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("m\n1\n"), &out)

	_, err := p.ResolveOverflow(context.Background(), pending, goals)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "[1] Trip")
	assert.Contains(t, text, "[2] Car")
	assert.NotContains(t, text, "[3]")
}

func TestResolveOverflowInputEnds(t *testing.T) {
	pending, goals := overflowFixture()
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})

	_, err := p.ResolveOverflow(context.Background(), pending, goals)
	require.ErrorIs(t, err, ErrInputTerminated)
}

func TestResolveOverflowCanceled(t *testing.T) {
	pending, goals := overflowFixture()
	p := NewPrompter(strings.NewReader("k\n"), &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ResolveOverflow(ctx, pending, goals)
	require.ErrorIs(t, err, ErrInputCancelled)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p := NewPrompter(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := p.Confirm(context.Background(), "Delete everything?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"Date", "Amount"},
		[][]string{{"Jan 02, 2025", "EGP 45.50"}, {"Jan 03, 2025"}},
	)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, out, "Date")
	assert.Contains(t, out, "EGP 45.50")
	assert.Contains(t, lines[len(lines)-1], "Jan 03, 2025")
}

func TestMeter(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		want    string
	}{
		{name: "empty", percent: 0, want: "[░░░░░░░░░░]"},
		{name: "half", percent: 50, want: "[█████░░░░░]"},
		{name: "over", percent: 140, want: "[██████████]"},
		{name: "negative", percent: -5, want: "[░░░░░░░░░░]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Meter(tt.percent, 10))
		})
	}

	assert.Empty(t, Meter(50, 0))
}

func TestFormatSuccess(t *testing.T) {
	out := FormatSuccess("Added EGP 45.50 to FastFood")
	assert.True(t, strings.HasPrefix(out, SuccessIcon+" "))
	assert.Contains(t, out, "Added EGP 45.50 to FastFood")
}

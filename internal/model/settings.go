package model

import "slices"

// OnboardingStep names a page of the first-run guide.
type OnboardingStep string

// Onboarding steps in display order.
const (
	StepDashboard OnboardingStep = "dashboard"
	StepChatbot   OnboardingStep = "chatbot"
	StepSavings   OnboardingStep = "savings"
)

// OnboardingSteps lists the guide pages in order.
var OnboardingSteps = []OnboardingStep{StepDashboard, StepChatbot, StepSavings}

// Onboarding tracks the first-run guide.
type Onboarding struct {
	HasCompleted bool `json:"hasCompletedOnboarding"`
	ShowGuide    bool `json:"showOnboardingGuide"`
}

// ReminderSettings holds reminder preferences and which reminders were
// dismissed or already notified.
type ReminderSettings struct {
	Dismissed []string `json:"dismissedReminders"`
	Notified  []string `json:"notifiedReminders"`
	Enabled   bool     `json:"remindersEnabled"`
}

// IsDismissed reports whether the reminder id was dismissed.
func (r ReminderSettings) IsDismissed(id string) bool {
	return slices.Contains(r.Dismissed, id)
}

// IsNotified reports whether the reminder id was already notified.
func (r ReminderSettings) IsNotified(id string) bool {
	return slices.Contains(r.Notified, id)
}

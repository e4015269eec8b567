package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/validate"
)

// AddChatMessage appends a message to the chat history, keeping only the
// most recent model.MaxChatHistory messages.
func (s *Store) AddChatMessage(ctx context.Context, role model.ChatRole, content string) (model.ChatMessage, error) {
	msg := model.ChatMessage{ID: s.newID(), Role: role, Content: content}
	_, err := s.commit(ctx, "chat.message", func(st *State, _ time.Time) error {
		st.Messages = append(st.Messages, msg)
		if over := len(st.Messages) - model.MaxChatHistory; over > 0 {
			st.Messages = slices.Clone(st.Messages[over:])
		}
		return nil
	})
	return msg, err
}

// ClearChat empties the chat history.
func (s *Store) ClearChat(ctx context.Context) error {
	_, err := s.commit(ctx, "chat.clear", func(st *State, _ time.Time) error {
		st.Messages = nil
		return nil
	})
	return err
}

// SetChatConfig replaces the assistant configuration. A blank bot name
// falls back to the default persona.
func (s *Store) SetChatConfig(ctx context.Context, cfg model.ChatConfig) error {
	cfg.BotName = strings.TrimSpace(cfg.BotName)
	if cfg.BotName == "" {
		cfg.BotName = model.DefaultBotName
	}
	_, err := s.commit(ctx, "chat.config", func(st *State, _ time.Time) error {
		st.Chat = cfg
		return nil
	})
	return err
}

// SetRemindersEnabled turns reminders on or off.
func (s *Store) SetRemindersEnabled(ctx context.Context, enabled bool) error {
	_, err := s.commit(ctx, "reminders.enable", func(st *State, _ time.Time) error {
		st.Reminders.Enabled = enabled
		return nil
	})
	return err
}

// DismissReminder hides the reminder with id.
func (s *Store) DismissReminder(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return validate.Errorf("reminder id is required")
	}
	_, err := s.commit(ctx, "reminders.dismiss", func(st *State, _ time.Time) error {
		if !st.Reminders.IsDismissed(id) {
			st.Reminders.Dismissed = append(st.Reminders.Dismissed, id)
		}
		return nil
	})
	return err
}

// MarkRemindersNotified records that the reminders with ids were delivered.
func (s *Store) MarkRemindersNotified(ctx context.Context, ids ...string) error {
	_, err := s.commit(ctx, "reminders.notified", func(st *State, _ time.Time) error {
		for _, id := range ids {
			if !st.Reminders.IsNotified(id) {
				st.Reminders.Notified = append(st.Reminders.Notified, id)
			}
		}
		return nil
	})
	return err
}

// PruneNotifiedReminders forgets notified reminders that are no longer
// active so they can be delivered again if they come back.
func (s *Store) PruneNotifiedReminders(ctx context.Context, activeIDs []string) error {
	_, err := s.commit(ctx, "reminders.prune", func(st *State, _ time.Time) error {
		st.Reminders.Notified = slices.DeleteFunc(st.Reminders.Notified, func(id string) bool {
			return !slices.Contains(activeIDs, id)
		})
		return nil
	})
	return err
}

// StartOnboarding shows the first-run guide.
func (s *Store) StartOnboarding(ctx context.Context) error {
	_, err := s.commit(ctx, "onboarding.start", func(st *State, _ time.Time) error {
		st.Onboarding.ShowGuide = true
		return nil
	})
	return err
}

// CompleteOnboarding hides the guide and records that it was completed.
func (s *Store) CompleteOnboarding(ctx context.Context) error {
	_, err := s.commit(ctx, "onboarding.complete", func(st *State, _ time.Time) error {
		st.Onboarding.HasCompleted = true
		st.Onboarding.ShowGuide = false
		return nil
	})
	return err
}

// Reset discards all data and returns to a first-run state. The assistant
// configuration is kept.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.commit(ctx, "reset", func(st *State, now time.Time) error {
		chat := st.Chat
		*st = freshState(now)
		st.Chat = chat
		return nil
	})
	return err
}

package tui

import (
	"strings"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// View renders the chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	status := "offline"
	if m.assistant.Online() {
		status = "online"
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("💬 Chat with " + m.botName))
	b.WriteString(" ")
	b.WriteString(m.theme.Status.Render("(" + status + ")"))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch {
	case m.waiting:
		b.WriteString(m.spinner.View() + " " + m.theme.Muted.Render(m.botName+" is typing..."))
	case m.lastError != nil:
		b.WriteString(m.theme.Error.Render(errorText(m.lastError)))
	}
	b.WriteString("\n")

	b.WriteString(m.theme.Input.Width(max(m.width-2, 10)).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

func (m Model) renderMessages() string {
	if len(m.messages) == 0 {
		return m.theme.Muted.Render("No messages yet.")
	}

	body := m.theme.Body.Width(max(m.viewport.Width-2, 10))
	blocks := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		author := m.theme.Bot.Render(m.botName)
		if msg.Role == model.RoleUser {
			author = m.theme.User.Render("You")
		}
		blocks = append(blocks, author+"\n"+body.Render(msg.Content))
	}
	return strings.Join(blocks, "\n\n")
}

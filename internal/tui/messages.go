package tui

import "github.com/Veraticus/expense-tracker/internal/model"

// historyMsg carries the stored conversation.
type historyMsg struct {
	err      error
	botName  string
	messages []model.ChatMessage
}

// replyMsg is sent when the assistant has answered.
type replyMsg struct {
	err error
}

// clearedMsg is sent after the conversation was wiped.
type clearedMsg struct {
	err error
}

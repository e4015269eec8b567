// Package tui implements the interactive chat screen.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Assistant answers chat messages.
type Assistant interface {
	Send(ctx context.Context, text string) (model.ChatMessage, error)
	Greet(ctx context.Context) (bool, error)
	Online() bool
}

// Conversation is the stored chat history.
type Conversation interface {
	State() (store.State, error)
	ClearChat(ctx context.Context) error
}

// chrome is the number of rows used by everything except the viewport.
const chrome = 7

// Model is the chat screen.
type Model struct {
	ctx       context.Context
	assistant Assistant
	conv      Conversation
	lastError error
	help      help.Model
	input     textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	theme     Theme
	keymap    KeyMap
	botName   string
	messages  []model.ChatMessage
	width     int
	height    int
	waiting   bool
	quitting  bool
}

// New creates the chat screen model.
func New(ctx context.Context, assistant Assistant, conv Conversation, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	input := textinput.New()
	input.Placeholder = "Ask about your spending, budgets or goals..."
	input.CharLimit = 500
	input.Prompt = "› "
	input.Focus()

	m := Model{
		ctx:       ctx,
		assistant: assistant,
		conv:      conv,
		help:      help.New(),
		input:     input,
		viewport:  viewport.New(cfg.Width, max(cfg.Height-chrome, 1)),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(cfg.Theme.Spinner)),
		theme:     cfg.Theme,
		keymap:    DefaultKeyMap(),
		botName:   model.DefaultBotName,
		width:     cfg.Width,
		height:    cfg.Height,
	}
	m.resize()
	return m
}

// Init greets the user on an empty conversation and loads the history.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.greet())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case historyMsg:
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.messages = msg.messages
		if msg.botName != "" {
			m.botName = msg.botName
		}
		m.refresh()
		return m, nil

	case replyMsg:
		m.waiting = false
		m.lastError = msg.err
		return m, m.loadHistory()

	case clearedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.lastError = nil
		return m, m.greet()

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case key.Matches(msg, m.keymap.PageUp):
		m.viewport.PageUp()
		return m, nil

	case key.Matches(msg, m.keymap.PageDown):
		m.viewport.PageDown()
		return m, nil

	case key.Matches(msg, m.keymap.ClearChat):
		if m.waiting {
			return m, nil
		}
		return m, m.clear()

	case key.Matches(msg, m.keymap.Send):
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.waiting {
			return m, nil
		}
		m.input.Reset()
		m.waiting = true
		m.lastError = nil
		m.messages = append(m.messages, model.ChatMessage{Role: model.RoleUser, Content: text})
		m.refresh()
		return m, tea.Batch(m.spinner.Tick, m.send(text))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) send(text string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.assistant.Send(m.ctx, text)
		return replyMsg{err: err}
	}
}

func (m Model) greet() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.assistant.Greet(m.ctx); err != nil {
			return historyMsg{err: err}
		}
		return m.loadHistory()()
	}
}

func (m Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		st, err := m.conv.State()
		if err != nil {
			return historyMsg{err: err}
		}
		return historyMsg{messages: st.Messages, botName: st.Chat.BotName}
	}
}

func (m Model) clear() tea.Cmd {
	return func() tea.Msg {
		return clearedMsg{err: m.conv.ClearChat(m.ctx)}
	}
}

func (m *Model) resize() {
	helpRows := 1
	if m.help.ShowAll {
		helpRows = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-chrome-helpRows+1, 1)
	m.input.Width = max(m.width-8, 10)
	m.help.Width = m.width
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// errorText is the message shown for a failed exchange.
func errorText(err error) string {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}

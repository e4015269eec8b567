package model

// ChatRole identifies who authored a chat message.
type ChatRole string

// Chat roles.
const (
	RoleUser ChatRole = "user"
	RoleBot  ChatRole = "bot"
)

// MaxChatHistory bounds the number of retained chat messages.
const MaxChatHistory = 50

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	ID      string   `json:"id"`
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// DefaultBotName is the assistant persona used until the user renames it.
const DefaultBotName = "Penny"

// ChatConfig configures the assistant persona and provider credentials.
type ChatConfig struct {
	BotName  string `json:"chatbotName"`
	Provider string `json:"chatbotProvider,omitempty"`
	Model    string `json:"chatbotModel,omitempty"`
	APIKey   string `json:"chatbotApiKey,omitempty"`
}

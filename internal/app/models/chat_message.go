package models

// MessageRole tells who authored a chat message
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is one chat exchange entry
type Message struct {
	ID         string      `json:"id"`
	Role       MessageRole `json:"role"`
	Content    string      `json:"content"`
	Citations  []string    `json:"citations,omitempty"`
	IsThinking bool        `json:"isThinking,omitempty"`
	DeepStudy  bool        `json:"deepStudy,omitempty"`
}

package responses

import (
	"time"

	"github.com/playgolfspainnow/chat-api/internal/domain/conversation"
)

// ErrorResponse is the JSON error body for non-streaming failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConversationPayload is returned to clients.
type ConversationPayload struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"created_at"`
}

// MessagePayload is one transcript entry.
type MessagePayload struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// ConversationDetail is the conversation with its full transcript.
type ConversationDetail struct {
	ConversationPayload
	Messages []MessagePayload `json:"messages"`
}

// ChatStatus reports which chat backends are configured.
type ChatStatus struct {
	Available    bool   `json:"available"`
	OpenAI       bool   `json:"openai"`
	Perplexity   bool   `json:"perplexity"`
	ToolsEnabled bool   `json:"tools_enabled"`
	Message      string `json:"message,omitempty"`
}

// FromConversation maps the domain conversation to its payload.
func FromConversation(c *conversation.Conversation) ConversationPayload {
	return ConversationPayload{
		ID:        c.PublicID,
		Title:     c.Title,
		CreatedAt: unixOrZero(c.CreatedAt),
	}
}

// FromMessage maps the domain message to its payload.
func FromMessage(m *conversation.Message) MessagePayload {
	return MessagePayload{
		ID:        m.PublicID,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: unixOrZero(m.CreatedAt),
	}
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

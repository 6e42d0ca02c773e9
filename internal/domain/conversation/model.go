package conversation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is applied when the caller creates a conversation without one.
const DefaultTitle = "New Chat"

// Message roles persisted in the durable log. Tool results are never
// persisted; only user and assistant messages reach the store.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is a chat thread. Title is fixed at creation and never
// mutated afterwards.
type Conversation struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one entry in a conversation's append-only log. Sequence defines
// the replay order into the model context and is assigned by the store at
// append time.
type Message struct {
	ID             uint      `json:"-"`
	ConversationID uint      `json:"-"`
	PublicID       string    `json:"id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Sequence       int       `json:"sequence"`
	CreatedAt      time.Time `json:"created_at"`
}

// New builds a conversation with a fresh public ID.
func New(title string) *Conversation {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	return &Conversation{
		PublicID:  NewPublicID(),
		Title:     title,
		CreatedAt: time.Now(),
	}
}

// NewPublicID generates an OpenAI-style conversation identifier.
func NewPublicID() string {
	return "conv_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

// NewMessagePublicID generates a message identifier.
func NewMessagePublicID() string {
	return "msg_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

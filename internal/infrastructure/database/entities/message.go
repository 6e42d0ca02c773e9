package entities

import (
	"time"

	"github.com/playgolfspainnow/chat-api/internal/domain/conversation"
)

// Message represents the database schema for conversation messages. Sequence
// is assigned under a row lock on the parent conversation so ordering is
// stable under concurrent writers.
type Message struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	ConversationID uint   `gorm:"index:idx_message_conversation_sequence;not null"`
	PublicID       string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Role           string `gorm:"type:varchar(20);not null"`
	Content        string `gorm:"type:text;not null"`
	Sequence       int    `gorm:"index:idx_message_conversation_sequence;not null"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts database entity to domain model.
func (m *Message) EtoD() *conversation.Message {
	return &conversation.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		PublicID:       m.PublicID,
		Role:           m.Role,
		Content:        m.Content,
		Sequence:       m.Sequence,
		CreatedAt:      m.CreatedAt,
	}
}

// NewSchemaMessage creates a database entity from domain model.
func NewSchemaMessage(m *conversation.Message) *Message {
	return &Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		PublicID:       m.PublicID,
		Role:           m.Role,
		Content:        m.Content,
		Sequence:       m.Sequence,
		CreatedAt:      m.CreatedAt,
	}
}

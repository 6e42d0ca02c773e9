package conversation

import (
	"context"
	"errors"
)

// ErrNotFound is returned by AppendMessage when the target conversation does
// not exist. Plain lookups report absence with a nil result instead.
var ErrNotFound = errors.New("conversation not found")

// Repository is the durable conversation store. Appends to the same
// conversation must be serialized so the persisted order is total, even
// under concurrent callers.
type Repository interface {
	Create(ctx context.Context, conv *Conversation) error
	// FindByPublicID returns (nil, nil) when the conversation is absent.
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	// List returns conversations most-recent first.
	List(ctx context.Context) ([]*Conversation, error)
	// Delete removes the conversation and all its messages. Deleting an
	// absent conversation is a no-op.
	Delete(ctx context.Context, publicID string) error
	// AppendMessage appends at the tail of the conversation's log and
	// assigns the next sequence number.
	AppendMessage(ctx context.Context, conversationPublicID, role, content string) (*Message, error)
	// ListMessages returns messages oldest first, in sequence order.
	ListMessages(ctx context.Context, conversationPublicID string) ([]*Message, error)
}

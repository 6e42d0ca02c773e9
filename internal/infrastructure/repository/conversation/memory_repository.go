package conversation

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/playgolfspainnow/chat-api/internal/domain/conversation"
)

// MemoryRepository is the storage backend when no database is configured.
// State lives for the process lifetime only.
type MemoryRepository struct {
	mu            sync.Mutex
	nextID        uint
	conversations map[string]*domain.Conversation
	messages      map[string][]*domain.Message
}

// NewMemoryRepository builds an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:        1,
		conversations: make(map[string]*domain.Conversation),
		messages:      make(map[string][]*domain.Message),
	}
}

var _ domain.Repository = (*MemoryRepository)(nil)

// Create stores the conversation.
func (r *MemoryRepository) Create(_ context.Context, conv *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv.ID = r.nextID
	r.nextID++
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now()
	}

	stored := *conv
	r.conversations[conv.PublicID] = &stored
	return nil
}

// FindByPublicID returns a copy of the stored conversation, or (nil, nil).
func (r *MemoryRepository) FindByPublicID(_ context.Context, publicID string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.conversations[publicID]
	if !ok {
		return nil, nil
	}
	conv := *stored
	return &conv, nil
}

// List returns all conversations, most recent first.
func (r *MemoryRepository) List(_ context.Context) ([]*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversations := make([]*domain.Conversation, 0, len(r.conversations))
	for _, stored := range r.conversations {
		conv := *stored
		conversations = append(conversations, &conv)
	}
	sort.Slice(conversations, func(i, j int) bool {
		if conversations[i].CreatedAt.Equal(conversations[j].CreatedAt) {
			return conversations[i].ID > conversations[j].ID
		}
		return conversations[i].CreatedAt.After(conversations[j].CreatedAt)
	})
	return conversations, nil
}

// Delete removes the conversation and its messages; absent IDs are a no-op.
func (r *MemoryRepository) Delete(_ context.Context, publicID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.conversations, publicID)
	delete(r.messages, publicID)
	return nil
}

// AppendMessage appends at the tail under the store lock, so sequences are
// gapless and unique per conversation.
func (r *MemoryRepository) AppendMessage(_ context.Context, conversationPublicID, role, content string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[conversationPublicID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	msg := &domain.Message{
		ID:             uint(len(r.messages[conversationPublicID]) + 1),
		ConversationID: conv.ID,
		PublicID:       domain.NewMessagePublicID(),
		Role:           role,
		Content:        content,
		Sequence:       len(r.messages[conversationPublicID]) + 1,
		CreatedAt:      time.Now(),
	}
	r.messages[conversationPublicID] = append(r.messages[conversationPublicID], msg)

	copied := *msg
	return &copied, nil
}

// ListMessages returns the transcript, oldest first.
func (r *MemoryRepository) ListMessages(_ context.Context, conversationPublicID string) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conversations[conversationPublicID]; !ok {
		return nil, domain.ErrNotFound
	}

	stored := r.messages[conversationPublicID]
	messages := make([]*domain.Message, 0, len(stored))
	for _, msg := range stored {
		copied := *msg
		messages = append(messages, &copied)
	}
	return messages, nil
}

package conversation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/playgolfspainnow/chat-api/internal/domain/conversation"
	"github.com/playgolfspainnow/chat-api/internal/infrastructure/database/entities"
)

// Repository persists conversations and their messages in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ domain.Repository = (*Repository)(nil)

// Create inserts the conversation record.
func (r *Repository) Create(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.NewSchemaConversation(conv)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	return nil
}

// FindByPublicID fetches a conversation by its public ID. A missing record
// yields (nil, nil).
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*domain.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch conversation: %w", err)
	}
	return entity.EtoD(), nil
}

// List returns all conversations, most recent first.
func (r *Repository) List(ctx context.Context) ([]*domain.Conversation, error) {
	var rows []entities.Conversation
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	conversations := make([]*domain.Conversation, 0, len(rows))
	for i := range rows {
		conversations = append(conversations, rows[i].EtoD())
	}
	return conversations, nil
}

// Delete removes the conversation and its messages. Deleting an absent
// conversation is a no-op.
func (r *Repository) Delete(ctx context.Context, publicID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity entities.Conversation
		if err := tx.Where("public_id = ?", publicID).First(&entity).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("fetch conversation: %w", err)
		}

		if err := tx.Where("conversation_id = ?", entity.ID).Delete(&entities.Message{}).Error; err != nil {
			return fmt.Errorf("delete messages: %w", err)
		}
		if err := tx.Delete(&entity).Error; err != nil {
			return fmt.Errorf("delete conversation: %w", err)
		}
		return nil
	})
}

// AppendMessage appends one message at the tail of the conversation. The
// sequence number is assigned under a row lock on the conversation so
// concurrent appenders cannot collide.
func (r *Repository) AppendMessage(ctx context.Context, conversationPublicID, role, content string) (*domain.Message, error) {
	var result *domain.Message

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv entities.Conversation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("public_id = ?", conversationPublicID).
			First(&conv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock conversation: %w", err)
		}

		var lastSequence int
		if err := tx.Model(&entities.Message{}).
			Where("conversation_id = ?", conv.ID).
			Select("COALESCE(MAX(sequence), 0)").
			Scan(&lastSequence).Error; err != nil {
			return fmt.Errorf("read last sequence: %w", err)
		}

		entity := entities.NewSchemaMessage(&domain.Message{
			ConversationID: conv.ID,
			PublicID:       domain.NewMessagePublicID(),
			Role:           role,
			Content:        content,
			Sequence:       lastSequence + 1,
		})
		if err := tx.Create(entity).Error; err != nil {
			return fmt.Errorf("create message: %w", err)
		}

		result = entity.EtoD()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListMessages returns the conversation transcript, oldest first.
func (r *Repository) ListMessages(ctx context.Context, conversationPublicID string) ([]*domain.Message, error) {
	var conv entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", conversationPublicID).
		First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetch conversation: %w", err)
	}

	var rows []entities.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conv.ID).
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages := make([]*domain.Message, 0, len(rows))
	for i := range rows {
		messages = append(messages, rows[i].EtoD())
	}
	return messages, nil
}

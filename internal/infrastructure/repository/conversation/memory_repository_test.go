package conversation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "github.com/playgolfspainnow/chat-api/internal/domain/conversation"
	conversationrepo "github.com/playgolfspainnow/chat-api/internal/infrastructure/repository/conversation"
)

func newStoredConversation(t *testing.T, repo *conversationrepo.MemoryRepository) *domain.Conversation {
	t.Helper()

	conv := domain.New(domain.DefaultTitle)
	if err := repo.Create(context.Background(), conv); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return conv
}

func TestMemoryRepository_FindByPublicID(t *testing.T) {
	repo := conversationrepo.NewMemoryRepository()
	conv := newStoredConversation(t, repo)

	found, err := repo.FindByPublicID(context.Background(), conv.PublicID)
	if err != nil {
		t.Fatalf("FindByPublicID: %v", err)
	}
	if found == nil || found.PublicID != conv.PublicID {
		t.Errorf("unexpected result: %+v", found)
	}

	missing, err := repo.FindByPublicID(context.Background(), "conv_missing")
	if err != nil {
		t.Fatalf("FindByPublicID missing: %v", err)
	}
	if missing != nil {
		t.Errorf("missing conversation must be (nil, nil), got %+v", missing)
	}
}

func TestMemoryRepository_ListOrder(t *testing.T) {
	repo := conversationrepo.NewMemoryRepository()
	ctx := context.Background()

	older := domain.New("first")
	older.CreatedAt = time.Now().Add(-time.Hour)
	if err := repo.Create(ctx, older); err != nil {
		t.Fatalf("Create: %v", err)
	}
	newer := newStoredConversation(t, repo)

	listed, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(listed))
	}
	if listed[0].PublicID != newer.PublicID {
		t.Errorf("expected most recent first, got %+v", listed)
	}
}

func TestMemoryRepository_DeleteCascades(t *testing.T) {
	repo := conversationrepo.NewMemoryRepository()
	ctx := context.Background()
	conv := newStoredConversation(t, repo)

	if _, err := repo.AppendMessage(ctx, conv.PublicID, domain.RoleUser, "hi"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	if err := repo.Delete(ctx, conv.PublicID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.ListMessages(ctx, conv.PublicID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := repo.Delete(ctx, conv.PublicID); err != nil {
		t.Errorf("repeat delete must be a no-op, got %v", err)
	}
}

func TestMemoryRepository_AppendToMissingConversation(t *testing.T) {
	repo := conversationrepo.NewMemoryRepository()

	_, err := repo.AppendMessage(context.Background(), "conv_missing", domain.RoleUser, "hi")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepository_ConcurrentAppendsKeepSequencesGapless(t *testing.T) {
	repo := conversationrepo.NewMemoryRepository()
	ctx := context.Background()
	conv := newStoredConversation(t, repo)

	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			if _, err := repo.AppendMessage(ctx, conv.PublicID, domain.RoleUser, "m"); err != nil {
				t.Errorf("AppendMessage: %v", err)
			}
		}()
	}
	wg.Wait()

	messages, err := repo.ListMessages(ctx, conv.PublicID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != writers {
		t.Fatalf("expected %d messages, got %d", writers, len(messages))
	}
	for i, msg := range messages {
		if msg.Sequence != i+1 {
			t.Errorf("message %d has sequence %d, want %d", i, msg.Sequence, i+1)
		}
	}
}

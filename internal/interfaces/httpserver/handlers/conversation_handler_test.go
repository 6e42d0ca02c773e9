package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/playgolfspainnow/chat-api/internal/domain/conversation"
	conversationrepo "github.com/playgolfspainnow/chat-api/internal/infrastructure/repository/conversation"
	"github.com/playgolfspainnow/chat-api/internal/interfaces/httpserver/handlers"
)

func setupConversationRouter() (*gin.Engine, *conversationrepo.MemoryRepository) {
	gin.SetMode(gin.TestMode)

	store := conversationrepo.NewMemoryRepository()
	handler := handlers.NewConversationHandler(store, zerolog.Nop())

	engine := gin.New()
	group := engine.Group("/v1/conversations")
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.DELETE("/:id", handler.Delete)
	return engine, store
}

func TestConversationHandler_CreateDefaultsTitle(t *testing.T) {
	router, _ := setupConversationRouter()

	req, _ := http.NewRequest("POST", "/v1/conversations", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if created["title"] != conversation.DefaultTitle {
		t.Errorf("expected default title, got %v", created["title"])
	}
	if id, _ := created["id"].(string); id == "" {
		t.Error("expected a public id")
	}
}

func TestConversationHandler_GetWithMessages(t *testing.T) {
	router, store := setupConversationRouter()
	ctx := context.Background()

	conv := conversation.New("Trip planning")
	if err := store.Create(ctx, conv); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.AppendMessage(ctx, conv.PublicID, conversation.RoleUser, "hi"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if _, err := store.AppendMessage(ctx, conv.PublicID, conversation.RoleAssistant, "hello"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	req, _ := http.NewRequest("GET", "/v1/conversations/"+conv.PublicID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var detail struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if detail.Title != "Trip planning" {
		t.Errorf("unexpected title: %q", detail.Title)
	}
	if len(detail.Messages) != 2 || detail.Messages[0].Role != conversation.RoleUser || detail.Messages[1].Content != "hello" {
		t.Errorf("unexpected transcript: %+v", detail.Messages)
	}
}

func TestConversationHandler_GetMissing(t *testing.T) {
	router, _ := setupConversationRouter()

	req, _ := http.NewRequest("GET", "/v1/conversations/conv_missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestConversationHandler_List(t *testing.T) {
	router, store := setupConversationRouter()

	for _, title := range []string{"one", "two"} {
		conv := conversation.New(title)
		if err := store.Create(context.Background(), conv); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	req, _ := http.NewRequest("GET", "/v1/conversations", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var listing struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(listing.Data) != 2 {
		t.Errorf("expected 2 conversations, got %d", len(listing.Data))
	}
}

func TestConversationHandler_Delete(t *testing.T) {
	router, store := setupConversationRouter()

	conv := conversation.New(conversation.DefaultTitle)
	if err := store.Create(context.Background(), conv); err != nil {
		t.Fatalf("Create: %v", err)
	}

	req, _ := http.NewRequest("DELETE", "/v1/conversations/"+conv.PublicID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}

	found, err := store.FindByPublicID(context.Background(), conv.PublicID)
	if err != nil {
		t.Fatalf("FindByPublicID: %v", err)
	}
	if found != nil {
		t.Error("conversation must be gone after delete")
	}

	// Deleting an absent conversation still returns 204.
	again := httptest.NewRecorder()
	router.ServeHTTP(again, req)
	if again.Code != http.StatusNoContent {
		t.Errorf("expected status 204 on repeat delete, got %d", again.Code)
	}
}

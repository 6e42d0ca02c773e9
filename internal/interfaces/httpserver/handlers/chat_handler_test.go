package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/playgolfspainnow/chat-api/internal/domain/chat"
	"github.com/playgolfspainnow/chat-api/internal/domain/conversation"
	"github.com/playgolfspainnow/chat-api/internal/domain/llm"
	"github.com/playgolfspainnow/chat-api/internal/domain/provider"
	"github.com/playgolfspainnow/chat-api/internal/domain/tool"
	conversationrepo "github.com/playgolfspainnow/chat-api/internal/infrastructure/repository/conversation"
	"github.com/playgolfspainnow/chat-api/internal/interfaces/httpserver/handlers"
	"github.com/playgolfspainnow/chat-api/internal/interfaces/httpserver/routes"
)

// scriptedStream replays fixed deltas then ends.
type scriptedStream struct {
	deltas []llm.ChatCompletionDelta
	pos    int
}

func (s *scriptedStream) Recv() (*llm.ChatCompletionDelta, error) {
	if s.pos >= len(s.deltas) {
		return nil, io.EOF
	}
	delta := s.deltas[s.pos]
	s.pos++
	return &delta, nil
}

func (s *scriptedStream) Close() error { return nil }

type scriptedBackend struct {
	deltas []llm.ChatCompletionDelta
}

func (p *scriptedBackend) StreamChatCompletion(context.Context, llm.ChatCompletionRequest) (llm.Stream, error) {
	return &scriptedStream{deltas: p.deltas}, nil
}

type stubRunner struct{}

func (stubRunner) Definitions() []llm.ToolDefinition { return nil }

func (stubRunner) Execute(_ context.Context, name, _ string) *tool.Result {
	return &tool.Result{ToolName: name}
}

func setupChatRouter(deltas []llm.ChatCompletionDelta, backends ...provider.Backend) (*gin.Engine, conversation.Repository) {
	gin.SetMode(gin.TestMode)

	if backends == nil {
		backends = []provider.Backend{{
			Kind:          provider.KindOpenAI,
			Model:         "test-model",
			SupportsTools: true,
			Client:        &scriptedBackend{deltas: deltas},
		}}
	}
	selector := provider.NewSelector(backends...)

	store := conversationrepo.NewMemoryRepository()
	service := chat.NewService(store, selector, stubRunner{}, chat.Config{
		MaxIterations:    5,
		ModelCallTimeout: time.Second,
		ToolTimeout:      time.Second,
	}, zerolog.Nop())

	engine := gin.New()
	handlerProvider := handlers.NewProvider(service, selector, store, zerolog.Nop())
	routes.NewProvider(handlerProvider).Register(engine)
	return engine, store
}

func textDelta(text string) llm.ChatCompletionDelta {
	return llm.ChatCompletionDelta{Choices: []llm.DeltaChoice{{Delta: llm.DeltaMessage{Content: text}}}}
}

func parseSSE(t *testing.T, body string) []map[string]any {
	t.Helper()

	var events []map[string]any
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &payload); err != nil {
			t.Fatalf("malformed SSE payload %q: %v", line, err)
		}
		events = append(events, payload)
	}
	return events
}

func TestChatHandler_StreamsTurn(t *testing.T) {
	router, store := setupChatRouter([]llm.ChatCompletionDelta{textDelta("Hola "), textDelta("golfer")})

	req, _ := http.NewRequest("POST", "/v1/chat", bytes.NewBufferString(`{"content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected SSE content type, got %q", ct)
	}

	conversationID := w.Header().Get("X-Conversation-Id")
	if conversationID == "" {
		t.Fatal("X-Conversation-Id header missing")
	}

	events := parseSSE(t, w.Body.String())
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %+v", events)
	}
	if events[0]["content"] != "Hola " || events[1]["content"] != "golfer" {
		t.Errorf("unexpected content events: %+v", events)
	}
	if events[2]["done"] != true {
		t.Errorf("expected terminal done event, got %+v", events[2])
	}

	messages, err := store.ListMessages(context.Background(), conversationID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("expected persisted user+assistant, got %d", len(messages))
	}
}

func TestChatHandler_NestedRouteUsesPathConversation(t *testing.T) {
	router, store := setupChatRouter([]llm.ChatCompletionDelta{textDelta("ok")})

	conv := conversation.New(conversation.DefaultTitle)
	if err := store.Create(context.Background(), conv); err != nil {
		t.Fatalf("Create: %v", err)
	}

	req, _ := http.NewRequest("POST", "/v1/conversations/"+conv.PublicID+"/messages", bytes.NewBufferString(`{"content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Conversation-Id"); got != conv.PublicID {
		t.Errorf("expected conversation %s, got %s", conv.PublicID, got)
	}
}

func TestChatHandler_MissingContent(t *testing.T) {
	router, _ := setupChatRouter(nil)

	req, _ := http.NewRequest("POST", "/v1/chat", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestChatHandler_UnknownConversation(t *testing.T) {
	router, _ := setupChatRouter([]llm.ChatCompletionDelta{textDelta("ok")})

	req, _ := http.NewRequest("POST", "/v1/conversations/conv_missing/messages", bytes.NewBufferString(`{"content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestChatHandler_Status(t *testing.T) {
	router, _ := setupChatRouter([]llm.ChatCompletionDelta{textDelta("ok")})

	req, _ := http.NewRequest("GET", "/v1/chat/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var status map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if status["available"] != true || status["openai"] != true || status["tools_enabled"] != true {
		t.Errorf("unexpected status: %+v", status)
	}
	if status["perplexity"] != false {
		t.Errorf("perplexity must be reported unconfigured: %+v", status)
	}
}

func TestChatHandler_StatusUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	selector := provider.NewSelector()
	store := conversationrepo.NewMemoryRepository()
	service := chat.NewService(store, selector, stubRunner{}, chat.Config{}, zerolog.Nop())

	engine := gin.New()
	routes.NewProvider(handlers.NewProvider(service, selector, store, zerolog.Nop())).Register(engine)

	req, _ := http.NewRequest("GET", "/v1/chat/status", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var status map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if status["available"] != false {
		t.Errorf("expected unavailable, got %+v", status)
	}
	if message, _ := status["message"].(string); !strings.Contains(message, "OPENAI_API_KEY") {
		t.Errorf("message must tell the operator what to configure: %+v", status)
	}
}

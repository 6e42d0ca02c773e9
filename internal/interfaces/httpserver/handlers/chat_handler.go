package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/playgolfspainnow/chat-api/internal/domain/chat"
	"github.com/playgolfspainnow/chat-api/internal/domain/conversation"
	"github.com/playgolfspainnow/chat-api/internal/domain/provider"
	"github.com/playgolfspainnow/chat-api/internal/interfaces/httpserver/requests"
	"github.com/playgolfspainnow/chat-api/internal/interfaces/httpserver/responses"
)

// ChatHandler exposes the streaming turn endpoints and the status report.
type ChatHandler struct {
	service  *chat.Service
	selector *provider.Selector
	log      zerolog.Logger
}

// NewChatHandler builds the chat handler.
func NewChatHandler(service *chat.Service, selector *provider.Selector, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service:  service,
		selector: selector,
		log:      log.With().Str("handler", "chat").Logger(),
	}
}

// SendMessage handles POST /v1/conversations/:id/messages. The conversation
// comes from the path; the body carries only the content.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req requests.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "content is required"})
		return
	}

	h.streamTurn(c, chat.TurnParams{
		ConversationID: c.Param("id"),
		Content:        req.Content,
		ProviderHint:   provider.Kind(req.Provider),
	})
}

// Chat handles POST /v1/chat with an optional conversation_id; an absent id
// starts a new conversation whose id is reported in the X-Conversation-Id
// header.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req requests.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "content is required"})
		return
	}

	h.streamTurn(c, chat.TurnParams{
		ConversationID: req.ConversationID,
		Content:        req.Content,
		ProviderHint:   provider.Kind(req.Provider),
	})
}

// Status handles GET /v1/chat/status.
func (h *ChatHandler) Status(c *gin.Context) {
	openai := h.selector.Has(provider.KindOpenAI)
	perplexity := h.selector.Has(provider.KindPerplexity)

	status := responses.ChatStatus{
		Available:    openai || perplexity,
		OpenAI:       openai,
		Perplexity:   perplexity,
		ToolsEnabled: openai,
	}
	if !status.Available {
		status.Message = "Chat AI not available. Please configure OPENAI_API_KEY or PERPLEXITY_API_KEY."
	}
	c.JSON(http.StatusOK, status)
}

func (h *ChatHandler) streamTurn(c *gin.Context, params chat.TurnParams) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "streaming not supported"})
		return
	}

	started, err := h.service.StreamTurn(c.Request.Context(), params)
	if err != nil {
		h.rejectTurn(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Conversation-Id", started.Conversation.PublicID)

	for event := range started.Events {
		h.writeEvent(c, flusher, event)
	}
}

func (h *ChatHandler) rejectTurn(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: err.Error()})
	case errors.Is(err, conversation.ErrNotFound):
		c.JSON(http.StatusNotFound, responses.ErrorResponse{Error: "conversation not found"})
	case errors.Is(err, chat.ErrTurnInProgress):
		c.JSON(http.StatusConflict, responses.ErrorResponse{Error: err.Error()})
	default:
		h.log.Error().Err(err).Msg("start turn")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to start chat turn"})
	}
}

// writeEvent maps one turn event onto the widget's wire contract.
func (h *ChatHandler) writeEvent(c *gin.Context, flusher http.Flusher, event chat.Event) {
	var payload any
	switch event.Kind {
	case chat.EventContent:
		payload = map[string]string{"content": event.Content}
	case chat.EventStatus:
		payload = map[string]string{"status": event.Status, "message": event.Message}
	case chat.EventDone:
		payload = map[string]bool{"done": true}
	case chat.EventError:
		payload = map[string]string{"error": event.Err}
	default:
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal SSE payload")
		return
	}

	fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	flusher.Flush()
}

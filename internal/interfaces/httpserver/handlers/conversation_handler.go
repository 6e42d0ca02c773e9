package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/playgolfspainnow/chat-api/internal/domain/conversation"
	"github.com/playgolfspainnow/chat-api/internal/interfaces/httpserver/requests"
	"github.com/playgolfspainnow/chat-api/internal/interfaces/httpserver/responses"
)

// ConversationHandler exposes conversation CRUD.
type ConversationHandler struct {
	store conversation.Repository
	log   zerolog.Logger
}

// NewConversationHandler builds the conversation handler.
func NewConversationHandler(store conversation.Repository, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		store: store,
		log:   log.With().Str("handler", "conversation").Logger(),
	}
}

// List handles GET /v1/conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	conversations, err := h.store.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list conversations")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to list conversations"})
		return
	}

	payload := make([]responses.ConversationPayload, 0, len(conversations))
	for _, conv := range conversations {
		payload = append(payload, responses.FromConversation(conv))
	}
	c.JSON(http.StatusOK, gin.H{"data": payload})
}

// Create handles POST /v1/conversations.
func (h *ConversationHandler) Create(c *gin.Context) {
	var req requests.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "invalid request body"})
		return
	}

	title := req.Title
	if title == "" {
		title = conversation.DefaultTitle
	}

	conv := conversation.New(title)
	if err := h.store.Create(c.Request.Context(), conv); err != nil {
		h.log.Error().Err(err).Msg("create conversation")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to create conversation"})
		return
	}

	c.JSON(http.StatusCreated, responses.FromConversation(conv))
}

// Get handles GET /v1/conversations/:id, returning the transcript.
func (h *ConversationHandler) Get(c *gin.Context) {
	id := c.Param("id")

	conv, err := h.store.FindByPublicID(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("conversation_id", id).Msg("fetch conversation")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to fetch conversation"})
		return
	}
	if conv == nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{Error: "conversation not found"})
		return
	}

	messages, err := h.store.ListMessages(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("conversation_id", id).Msg("list messages")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to fetch messages"})
		return
	}

	detail := responses.ConversationDetail{
		ConversationPayload: responses.FromConversation(conv),
		Messages:            make([]responses.MessagePayload, 0, len(messages)),
	}
	for _, msg := range messages {
		detail.Messages = append(detail.Messages, responses.FromMessage(msg))
	}
	c.JSON(http.StatusOK, detail)
}

// Delete handles DELETE /v1/conversations/:id. Absent conversations still
// return 204.
func (h *ConversationHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Error().Err(err).Msg("delete conversation")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to delete conversation"})
		return
	}
	c.Status(http.StatusNoContent)
}

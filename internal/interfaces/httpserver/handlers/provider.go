package handlers

import (
	"github.com/rs/zerolog"

	"github.com/playgolfspainnow/chat-api/internal/domain/chat"
	"github.com/playgolfspainnow/chat-api/internal/domain/conversation"
	"github.com/playgolfspainnow/chat-api/internal/domain/provider"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat         *ChatHandler
	Conversation *ConversationHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(chatService *chat.Service, selector *provider.Selector, store conversation.Repository, log zerolog.Logger) *Provider {
	return &Provider{
		Chat:         NewChatHandler(chatService, selector, log),
		Conversation: NewConversationHandler(store, log),
	}
}

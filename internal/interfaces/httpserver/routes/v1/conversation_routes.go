package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/playgolfspainnow/chat-api/internal/interfaces/httpserver/handlers"
)

func registerConversationRoutes(group *gin.RouterGroup, handler *handlers.ConversationHandler, chatHandler *handlers.ChatHandler) {
	conversations := group.Group("/conversations")
	conversations.GET("", handler.List)
	conversations.POST("", handler.Create)
	conversations.GET("/:id", handler.Get)
	conversations.DELETE("/:id", handler.Delete)
	conversations.POST("/:id/messages", chatHandler.SendMessage)
}

package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/playgolfspainnow/chat-api/internal/interfaces/httpserver/handlers"
)

func registerChatRoutes(group *gin.RouterGroup, handler *handlers.ChatHandler) {
	chat := group.Group("/chat")
	chat.POST("", handler.Chat)
	chat.GET("/status", handler.Status)
}

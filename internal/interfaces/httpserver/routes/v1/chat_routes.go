package v1

import (
	"github.com/gin-gonic/gin"

	"renohub/services/assistant-api/internal/config"
	"renohub/services/assistant-api/internal/interfaces/httpserver/handlers"
	"renohub/services/assistant-api/internal/interfaces/httpserver/middlewares"
)

// registerChatRoutes wires the chat session endpoints. Session creation and
// message turns get their own, tighter rate limits on top of the general one.
func registerChatRoutes(group *gin.RouterGroup, handler *handlers.ChatHandler, cfg *config.Config) {
	chat := group.Group("/chat")
	chat.Use(middlewares.RateLimitMiddleware(cfg.GeneralRateLimit))

	sessions := chat.Group("/sessions")
	sessions.POST("", middlewares.RateLimitMiddleware(cfg.SessionRateLimit), handler.CreateSession)
	sessions.GET("/active", handler.GetActiveSession)
	sessions.GET("/:session_id", handler.GetSession)
	sessions.POST("/:session_id/messages", middlewares.RateLimitMiddleware(cfg.MessageRateLimit), handler.SendMessage)
	sessions.DELETE("/:session_id", handler.CloseSession)
}

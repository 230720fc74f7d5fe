package v1

import (
	"github.com/gin-gonic/gin"

	"renohub/services/assistant-api/internal/config"
	"renohub/services/assistant-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
	cfg      *config.Config
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider, cfg *config.Config) *Routes {
	return &Routes{
		handlers: handlerProvider,
		cfg:      cfg,
	}
}

// Register attaches all v1 routes under the /v1 prefix.
func (r *Routes) Register(engine *gin.Engine) {
	group := engine.Group("/v1")
	registerChatRoutes(group, r.handlers.Chat, r.cfg)
}

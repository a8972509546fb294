package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	sessions := rg.Group("/chat/sessions")
	{
		sessions.POST("/:id/messages", h.SendMessage)
		sessions.DELETE("/:id", h.ClearSession)
	}
}

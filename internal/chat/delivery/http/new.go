package http

import (
	"github.com/gin-gonic/gin"

	"content-pilot/internal/session"
	"content-pilot/pkg/log"
)

// Handler is the public interface for the chat HTTP delivery layer.
type Handler interface {
	SendMessage(c *gin.Context)
	ClearSession(c *gin.Context)
}

type handler struct {
	l        log.Logger
	sessions *session.Manager
}

// New creates a new HTTP handler for the chat domain.
func New(l log.Logger, sessions *session.Manager) *handler {
	return &handler{
		l:        l,
		sessions: sessions,
	}
}

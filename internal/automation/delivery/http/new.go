package http

import (
	"github.com/gin-gonic/gin"

	"content-pilot/internal/automation"
	"content-pilot/pkg/log"
)

// Handler is the public interface for the automation HTTP delivery layer.
type Handler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Enable(c *gin.Context)
	Disable(c *gin.Context)
	Fire(c *gin.Context)
	ListRuns(c *gin.Context)
	RetryPost(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc automation.UseCase
}

// New creates a new HTTP handler for the automation domain.
func New(l log.Logger, uc automation.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}

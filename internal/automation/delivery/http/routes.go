package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	automations := rg.Group("/automations")
	{
		automations.POST("", h.Create)
		automations.GET("", h.List)
		automations.PATCH("/:id/enable", h.Enable)
		automations.PATCH("/:id/disable", h.Disable)
		automations.POST("/:id/fire", h.Fire)
		automations.GET("/:id/runs", h.ListRuns)
	}

	runs := rg.Group("/runs")
	{
		runs.POST("/:id/retry-post", h.RetryPost)
	}
}

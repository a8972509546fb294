package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	autoDelivery "content-pilot/internal/automation/delivery/http"
	chatDelivery "content-pilot/internal/chat/delivery/http"
	"content-pilot/internal/middleware"
)

func (srv *HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
	return nil
}

func (srv *HTTPServer) registerMiddlewares() {
	mw := middleware.New(srv.l)
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(mw.RequestLog())
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

func (srv *HTTPServer) registerDomainRoutes() {
	ctx := context.Background()
	v1 := srv.gin.Group("/api/v1")

	chatDelivery.RegisterRoutes(v1, srv.chatHandler)
	srv.l.Infof(ctx, "chat routes registered under /api/v1/chat")

	if srv.automationHandler != nil {
		autoDelivery.RegisterRoutes(v1, srv.automationHandler)
		srv.l.Infof(ctx, "automation routes registered under /api/v1/automations")
	} else {
		srv.l.Infof(ctx, "automation handler not configured, skipping automation routes")
	}
}

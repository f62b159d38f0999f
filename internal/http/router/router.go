package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sabbaghsami/gramps/internal/http/dto"
	"github.com/sabbaghsami/gramps/internal/http/handler"
	"github.com/sabbaghsami/gramps/internal/http/middleware"
	"github.com/sabbaghsami/gramps/internal/service"
)

type RouterConfig struct {
	DashboardURL string
	IsProduction bool
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	dto.RegisterValidators()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(services.Auth(), cfg.DashboardURL, cfg.IsProduction)
	AuthRouter(router.Group("/auth"), authHandler)

	api := router.Group("/api")
	api.Use(middleware.RequireAuth(services.Auth()))
	{
		messageHandler := handler.NewMessageHandler(services.Boards(), services.Messages())
		MessageRouter(api.Group("/messages"), messageHandler)

		workspaceHandler := handler.NewWorkspaceHandler(services.Workspaces(), services.Invitations())
		WorkspaceRouter(api.Group("/workspaces"), workspaceHandler)

		translateHandler := handler.NewTranslateHandler(services.Translation())
		api.POST("/translate", translateHandler.Translate)
	}
}

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler) {
	rg.GET("/login", h.Login)
	rg.GET("/callback", h.Callback)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", h.Me)
}

func MessageRouter(rg *gin.RouterGroup, h *handler.MessageHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.DELETE("/:id", h.Delete)
}

func WorkspaceRouter(rg *gin.RouterGroup, h *handler.WorkspaceHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/:id/invite", h.Invite)
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/permitgate/internal/interfaces/http/handlers"
	"github.com/orris-inc/permitgate/internal/interfaces/http/middleware"
	"github.com/orris-inc/permitgate/internal/shared/authorization"
)

// InboxRouteConfig holds dependencies for the in-app notification routes.
type InboxRouteConfig struct {
	InboxHandler         *handlers.InboxHandler
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupInboxRoutes(api *gin.RouterGroup, cfg *InboxRouteConfig) {
	inbox := api.Group("/inbox")
	inbox.Use(cfg.PermissionMiddleware.RequirePermission(authorization.ResourceInbox, authorization.ActionRead))
	{
		inbox.GET("", cfg.InboxHandler.List)
		inbox.POST("/:id/read", cfg.InboxHandler.MarkRead)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/permitgate/internal/interfaces/http/handlers"
	"github.com/orris-inc/permitgate/internal/interfaces/http/middleware"
	"github.com/orris-inc/permitgate/internal/shared/authorization"
)

// AccessRouteConfig holds dependencies for gate, door, badge and audit routes.
type AccessRouteConfig struct {
	AccessHandler        *handlers.AccessHandler
	PermissionMiddleware *middleware.PermissionMiddleware
	// RateLimiter guards the gate endpoints when set.
	RateLimiter *middleware.RateLimiter
}

// SetupAccessRoutes configures check-in, check-out, door access, badge reissue
// and the access audit queries.
func SetupAccessRoutes(api *gin.RouterGroup, cfg *AccessRouteConfig) {
	require := cfg.PermissionMiddleware.RequirePermission

	access := api.Group("/access")
	gate := access.Group("")
	if cfg.RateLimiter != nil {
		gate.Use(cfg.RateLimiter.Limit())
	}
	{
		gate.POST("/check-in", require(authorization.ResourceAccess, authorization.ActionCheckIn), cfg.AccessHandler.CheckIn)
		gate.POST("/check-out", require(authorization.ResourceAccess, authorization.ActionCheckOut), cfg.AccessHandler.CheckOut)
		gate.POST("/door", require(authorization.ResourceAccess, authorization.ActionDoor), cfg.AccessHandler.Door)
	}
	{
		access.GET("/events", require(authorization.ResourceAudit, authorization.ActionRead), cfg.AccessHandler.ListEvents)
		access.GET("/summary", require(authorization.ResourceAudit, authorization.ActionRead), cfg.AccessHandler.DailySummary)
		access.GET("/checked-in", require(authorization.ResourceAudit, authorization.ActionRead), cfg.AccessHandler.CheckedIn)
	}

	badges := api.Group("/badges")
	{
		badges.POST("/:id/reissue", require(authorization.ResourceBadge, authorization.ActionReissue), cfg.AccessHandler.ReissueBadge)
	}
}

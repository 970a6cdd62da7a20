package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/permitgate/internal/interfaces/http/handlers"
	"github.com/orris-inc/permitgate/internal/interfaces/http/middleware"
	"github.com/orris-inc/permitgate/internal/shared/authorization"
)

// PermitRouteConfig holds dependencies for permit and approval routes.
type PermitRouteConfig struct {
	PermitHandler        *handlers.PermitHandler
	ApprovalHandler      *handlers.ApprovalHandler
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupPermitRoutes configures the permit lifecycle and approval workflow routes.
func SetupPermitRoutes(api *gin.RouterGroup, cfg *PermitRouteConfig) {
	require := cfg.PermissionMiddleware.RequirePermission

	permits := api.Group("/permits")
	{
		permits.POST("", require(authorization.ResourcePermit, authorization.ActionCreate), cfg.PermitHandler.Submit)
		permits.GET("", require(authorization.ResourcePermit, authorization.ActionRead), cfg.PermitHandler.List)

		// Specific named endpoints (must come BEFORE /:id to avoid conflicts)
		permits.GET("/number/:number", require(authorization.ResourcePermit, authorization.ActionRead), cfg.PermitHandler.GetByNumber)

		permits.GET("/:id", require(authorization.ResourcePermit, authorization.ActionRead), cfg.PermitHandler.Get)
		permits.POST("/:id/cancel", require(authorization.ResourcePermit, authorization.ActionCancel), cfg.PermitHandler.Cancel)
		permits.POST("/:id/regenerate-code", require(authorization.ResourcePermit, authorization.ActionRegenerateCode), cfg.PermitHandler.RegenerateCode)

		permits.POST("/:id/pic-review", require(authorization.ResourcePermit, authorization.ActionReview), cfg.ApprovalHandler.PicReview)
		permits.POST("/:id/manager-approval", require(authorization.ResourcePermit, authorization.ActionApprove), cfg.ApprovalHandler.ManagerApproval)
		permits.GET("/:id/approvals", require(authorization.ResourceApproval, authorization.ActionRead), cfg.ApprovalHandler.ListByPermit)
	}

	approvals := api.Group("/approvals")
	{
		approvals.GET("/pending", require(authorization.ResourceApproval, authorization.ActionRead), cfg.ApprovalHandler.ListPending)
	}
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/orris-inc/permitgate/internal/infrastructure/config"
	"github.com/orris-inc/permitgate/internal/interfaces/http/middleware"
	"github.com/orris-inc/permitgate/internal/interfaces/http/routes"
	"github.com/orris-inc/permitgate/internal/shared/constants"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.CustomLogger(r.log))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.Metrics(r.metrics))

	r.engine.GET("/health", r.health)
	r.engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	api := r.engine.Group(constants.APIVersionPrefix)
	api.Use(middleware.Actor(r.jwt, r.directory, r.log))

	routes.SetupPermitRoutes(api, &routes.PermitRouteConfig{
		PermitHandler:        r.hdlrs.permitHandler,
		ApprovalHandler:      r.hdlrs.approvalHandler,
		PermissionMiddleware: r.permissionMiddleware,
	})
	routes.SetupAccessRoutes(api, &routes.AccessRouteConfig{
		AccessHandler:        r.hdlrs.accessHandler,
		PermissionMiddleware: r.permissionMiddleware,
		RateLimiter:          r.gateRateLimiter,
	})
	routes.SetupInboxRoutes(api, &routes.InboxRouteConfig{
		InboxHandler:         r.hdlrs.inboxHandler,
		PermissionMiddleware: r.permissionMiddleware,
	})
}

func (r *Router) health(c *gin.Context) {
	sqlDB, err := r.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

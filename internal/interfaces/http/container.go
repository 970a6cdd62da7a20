package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appNotification "github.com/orris-inc/permitgate/internal/application/notification"
	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/infrastructure/auth"
	"github.com/orris-inc/permitgate/internal/infrastructure/config"
	"github.com/orris-inc/permitgate/internal/infrastructure/metrics"
	"github.com/orris-inc/permitgate/internal/infrastructure/permission"
	"github.com/orris-inc/permitgate/internal/interfaces/http/middleware"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/db"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

// Container holds the infrastructure, repositories, use cases and handlers of
// the service, wired together once at startup.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client
	clock  biztime.Clock
	txMgr  *db.TransactionManager

	directory  directory.Directory
	jwt        *auth.JWTService
	metrics    *metrics.Metrics
	enforcer   *permission.Enforcer
	dispatcher *appNotification.Dispatcher

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	permissionMiddleware *middleware.PermissionMiddleware
	gateRateLimiter      *middleware.RateLimiter
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(gdb *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     gdb,
		cfg:    cfg,
		log:    log,
		clock:  biztime.SystemClock{},
		txMgr:  db.NewTransactionManager(gdb),
	}

	// Section 1: Infrastructure - Redis, Directory, Actor tokens, Metrics, Authorization
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Repositories
	c.repos = newRepositories(gdb)

	// Section 3: Notification channels
	c.initNotifications()

	// Section 4: Use cases
	if err := c.initUseCases(); err != nil {
		return nil, err
	}

	// Section 5: Handlers and middlewares
	c.initHandlers()

	return c, nil
}

// Shutdown waits for in-flight notifications and closes Redis.
func (c *Container) Shutdown() {
	if c.dispatcher != nil {
		c.dispatcher.Wait()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}

func (c *Container) initInfrastructure() error {
	dir, err := newDirectory(c.cfg)
	if err != nil {
		return err
	}
	c.directory = dir
	c.jwt = auth.NewJWTService(c.cfg.Auth.JWT, c.clock)

	c.metrics = metrics.New()

	c.enforcer, err = permission.NewEnforcer(c.db, c.log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := permission.InitAccessPolicies(c.enforcer, c.log); err != nil {
		return fmt.Errorf("failed to seed access policies: %w", err)
	}

	if c.cfg.Redis.Enabled {
		client, err := initRedis(c.cfg, c.log)
		if err != nil {
			return err
		}
		c.redis = client
	}
	return nil
}

package http

import (
	"time"

	"github.com/orris-inc/permitgate/internal/interfaces/http/handlers"
	"github.com/orris-inc/permitgate/internal/interfaces/http/middleware"
)

const gateRateLimitPrefix = "permitgate:gate"

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	permitHandler   *handlers.PermitHandler
	approvalHandler *handlers.ApprovalHandler
	accessHandler   *handlers.AccessHandler
	inboxHandler    *handlers.InboxHandler
}

func (c *Container) initHandlers() {
	ucs := c.ucs
	log := c.log

	c.hdlrs = &allHandlers{
		permitHandler: handlers.NewPermitHandler(
			ucs.submitPermitUC, ucs.getPermitUC, ucs.listPermitsUC, ucs.cancelPermitUC, ucs.regenerateCodeUC, log,
		),
		approvalHandler: handlers.NewApprovalHandler(ucs.picReviewUC, ucs.managerApprovalUC, ucs.listApprovalsUC, log),
		accessHandler: handlers.NewAccessHandler(
			ucs.checkInUC, ucs.checkOutUC, ucs.doorAccessUC, ucs.reissueBadgeUC, ucs.auditService,
			c.cfg.Access.HardenedDenials, log,
		),
		inboxHandler: handlers.NewInboxHandler(ucs.inboxService, log),
	}

	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, log)
	if c.redis != nil && c.cfg.Access.GateRateLimit > 0 {
		c.gateRateLimiter = middleware.NewRateLimiter(c.redis, gateRateLimitPrefix, c.cfg.Access.GateRateLimit, time.Minute)
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/permitgate/internal/shared/authorization"
	"github.com/orris-inc/permitgate/internal/shared/logger"
	"github.com/orris-inc/permitgate/internal/shared/utils"
)

type PermissionMiddleware struct {
	authorizer authorization.Authorizer
	logger     logger.Interface
}

func NewPermissionMiddleware(authorizer authorization.Authorizer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		authorizer: authorizer,
		logger:     logger,
	}
}

// RequirePermission must run after Actor.
func (m *PermissionMiddleware) RequirePermission(resource authorization.Resource, action authorization.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := ActorID(c)
		if actorID == 0 {
			utils.ErrorResponse(c, http.StatusUnauthorized, errTypeUnauthenticated, "actor not identified")
			c.Abort()
			return
		}

		allowed, err := m.authorizer.Authorize(actorRoles(c), resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "actor_id", actorID, "resource", resource, "action", action)
			utils.ErrorResponse(c, http.StatusInternalServerError, "internal_error", "permission check failed")
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied", "actor_id", actorID, "resource", resource, "action", action)
			utils.ErrorResponse(c, http.StatusForbidden, "unauthorized", "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

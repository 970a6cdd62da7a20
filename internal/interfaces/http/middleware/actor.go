package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/infrastructure/auth"
	"github.com/orris-inc/permitgate/internal/shared/constants"
	"github.com/orris-inc/permitgate/internal/shared/logger"
	"github.com/orris-inc/permitgate/internal/shared/utils"
)

const errTypeUnauthenticated = "unauthenticated"

// Actor verifies the bearer token signed by the upstream gateway, resolves its
// subject against the directory and stores the actor id and roles in the context.
func Actor(tokens *auth.JWTService, dir directory.Directory, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.HeaderAuthorization)
		if header == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, errTypeUnauthenticated, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, errTypeUnauthenticated, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			log.Warnw("failed to verify actor token", "path", c.Request.URL.Path, "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, errTypeUnauthenticated, "invalid or expired token")
			c.Abort()
			return
		}
		id, err := claims.ActorID()
		if err != nil {
			log.Warnw("actor token without a usable subject", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, errTypeUnauthenticated, "invalid actor id")
			c.Abort()
			return
		}

		person, err := dir.GetPerson(c.Request.Context(), id)
		if err != nil {
			log.Errorw("failed to resolve actor", "actor_id", id, "error", err)
			utils.ErrorResponse(c, http.StatusInternalServerError, "internal_error", "Internal server error occurred")
			c.Abort()
			return
		}
		if person == nil {
			log.Warnw("unknown actor", "actor_id", id, "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusUnauthorized, errTypeUnauthenticated, "unknown actor")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyActorID, person.ID)
		c.Set(constants.ContextKeyActorRoles, person.RoleNames())
		c.Next()
	}
}

// ActorID returns the id stored by Actor, or zero.
func ActorID(c *gin.Context) uint {
	return c.GetUint(constants.ContextKeyActorID)
}

func actorRoles(c *gin.Context) []string {
	return c.GetStringSlice(constants.ContextKeyActorRoles)
}

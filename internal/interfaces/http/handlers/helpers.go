package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/shared/constants"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/utils"
)

// bindJSON binds the body and answers 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return false
	}
	return true
}

func actorID(c *gin.Context) uint {
	return c.GetUint(constants.ContextKeyActorID)
}

func actorHasRole(c *gin.Context, role directory.Role) bool {
	for _, r := range c.GetStringSlice(constants.ContextKeyActorRoles) {
		if r == string(role) || r == string(directory.RoleAdmin) {
			return true
		}
	}
	return false
}

// staffActor reports whether the actor may see permits beyond their own.
func staffActor(c *gin.Context) bool {
	return actorHasRole(c, directory.RoleManager) || actorHasRole(c, directory.RoleSecurity)
}

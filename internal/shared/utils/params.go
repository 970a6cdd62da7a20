package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/permitgate/internal/shared/errors"
)

// ParseUintParam parses a numeric identifier from a URL path parameter.
// entityName is used in error messages (e.g., "permit", "badge").
func ParseUintParam(c *gin.Context, paramName, entityName string) (uint, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return 0, errors.NewValidationError(entityName + " ID is required")
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, errors.NewValidationError("invalid " + entityName + " ID")
	}
	return uint(v), nil
}

// ParseUintQuery parses an optional numeric query parameter; zero means absent.
func ParseUintQuery(c *gin.Context, key string) (uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.NewValidationError("invalid " + key)
	}
	return uint(v), nil
}

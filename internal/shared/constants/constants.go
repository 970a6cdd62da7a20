package constants

const (
	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderXRequestID    = "X-Request-ID"
	HeaderAuthorization = "Authorization"

	// API version prefix
	APIVersionPrefix = "/api/v1"

	// Context keys
	ContextKeyActorID    = "actor_id"
	ContextKeyActorRoles = "actor_roles"
	ContextKeyRequestID  = "request_id"
)

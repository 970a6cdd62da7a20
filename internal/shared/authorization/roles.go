// Package authorization names the resources and actions that route-level
// policies are written against.
package authorization

type Resource string

const (
	ResourcePermit   Resource = "permit"
	ResourceApproval Resource = "approval"
	ResourceAccess   Resource = "access"
	ResourceBadge    Resource = "badge"
	ResourceAudit    Resource = "audit"
	ResourceInbox    Resource = "inbox"
)

type Action string

const (
	ActionCreate         Action = "create"
	ActionRead           Action = "read"
	ActionCancel         Action = "cancel"
	ActionReview         Action = "review"
	ActionApprove        Action = "approve"
	ActionRegenerateCode Action = "regenerate_code"
	ActionCheckIn        Action = "check_in"
	ActionCheckOut       Action = "check_out"
	ActionDoor           Action = "door"
	ActionReissue        Action = "reissue"
)

// Authorizer decides whether any of roles may perform action on resource.
type Authorizer interface {
	Authorize(roles []string, resource Resource, action Action) (bool, error)
}

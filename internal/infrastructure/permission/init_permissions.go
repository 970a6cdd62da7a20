package permission

import (
	"fmt"

	"github.com/orris-inc/permitgate/internal/domain/directory"
	authz "github.com/orris-inc/permitgate/internal/shared/authorization"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

type policy struct {
	role     directory.Role
	resource authz.Resource
	action   authz.Action
}

var defaultPolicies = []policy{
	{directory.RoleVisitor, authz.ResourcePermit, authz.ActionCreate},
	{directory.RoleVisitor, authz.ResourcePermit, authz.ActionRead},
	{directory.RoleVisitor, authz.ResourcePermit, authz.ActionCancel},
	{directory.RoleVisitor, authz.ResourcePermit, authz.ActionRegenerateCode},
	{directory.RoleVisitor, authz.ResourceInbox, authz.ActionRead},

	{directory.RolePIC, authz.ResourcePermit, authz.ActionRead},
	{directory.RolePIC, authz.ResourcePermit, authz.ActionCancel},
	{directory.RolePIC, authz.ResourcePermit, authz.ActionReview},
	{directory.RolePIC, authz.ResourcePermit, authz.ActionRegenerateCode},
	{directory.RolePIC, authz.ResourceApproval, authz.ActionRead},
	{directory.RolePIC, authz.ResourceAccess, authz.ActionCheckOut},
	{directory.RolePIC, authz.ResourceAudit, authz.ActionRead},
	{directory.RolePIC, authz.ResourceInbox, authz.ActionRead},

	{directory.RoleManager, authz.ResourcePermit, authz.ActionRead},
	{directory.RoleManager, authz.ResourcePermit, authz.ActionApprove},
	{directory.RoleManager, authz.ResourceApproval, authz.ActionRead},
	{directory.RoleManager, authz.ResourceAudit, authz.ActionRead},
	{directory.RoleManager, authz.ResourceInbox, authz.ActionRead},

	{directory.RoleSecurity, authz.ResourcePermit, authz.ActionRead},
	{directory.RoleSecurity, authz.ResourceAccess, authz.ActionCheckIn},
	{directory.RoleSecurity, authz.ResourceAccess, authz.ActionCheckOut},
	{directory.RoleSecurity, authz.ResourceAccess, authz.ActionDoor},
	{directory.RoleSecurity, authz.ResourceBadge, authz.ActionReissue},
	{directory.RoleSecurity, authz.ResourceAudit, authz.ActionRead},
	{directory.RoleSecurity, authz.ResourceInbox, authz.ActionRead},
}

// admin inherits every other role.
var adminInherits = []directory.Role{
	directory.RoleVisitor,
	directory.RolePIC,
	directory.RoleManager,
	directory.RoleSecurity,
}

// InitAccessPolicies writes the default role policies. Existing rules are left
// alone, so it is safe to run on every start.
func InitAccessPolicies(e *Enforcer, log logger.Interface) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, p := range defaultPolicies {
		ok, err := e.enforcer.AddPolicy(string(p.role), string(p.resource), string(p.action))
		if err != nil {
			log.Errorw("failed to add access policy",
				"error", err,
				"role", p.role,
				"resource", p.resource,
				"action", p.action)
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", p.role, p.resource, p.action, err)
		}
		if ok {
			added++
		}
	}

	for _, role := range adminInherits {
		ok, err := e.enforcer.AddRoleForUser(string(directory.RoleAdmin), string(role))
		if err != nil {
			return fmt.Errorf("failed to grant %s to admin: %w", role, err)
		}
		if ok {
			added++
		}
	}

	log.Infow("access policies initialized", "added", added)
	return nil
}

// Package directory describes the people known to the permit system. Profiles
// are owned by an external identity service; this package only reads them.
package directory

import (
	"context"
	"fmt"
)

type Role string

const (
	RoleVisitor  Role = "visitor"
	RolePIC      Role = "pic"
	RoleManager  Role = "manager"
	RoleSecurity Role = "security"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleVisitor, RolePIC, RoleManager, RoleSecurity, RoleAdmin:
		return true
	}
	return false
}

type Person struct {
	ID      uint
	Name    string
	Email   string
	Phone   string
	Company string
	Roles   []Role
}

func (p *Person) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleNames returns the roles as plain strings for authorization checks.
func (p *Person) RoleNames() []string {
	out := make([]string, len(p.Roles))
	for i, r := range p.Roles {
		out[i] = string(r)
	}
	return out
}

func (p *Person) Validate() error {
	if p.ID == 0 {
		return fmt.Errorf("person ID is required")
	}
	if p.Name == "" {
		return fmt.Errorf("person %d has no name", p.ID)
	}
	for _, r := range p.Roles {
		if !r.IsValid() {
			return fmt.Errorf("person %d has invalid role %q", p.ID, r)
		}
	}
	return nil
}

// Directory resolves people by id and role. GetPerson returns (nil, nil) for
// unknown ids.
type Directory interface {
	GetPerson(ctx context.Context, personID uint) (*Person, error)
	ListByRole(ctx context.Context, role Role) ([]*Person, error)
}

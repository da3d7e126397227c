// Package rbac maps roles onto permissions and gates HTTP routes.
package rbac

import (
	"strings"

	"github.com/icedepot/icedepot/internal/auth"
	"github.com/icedepot/icedepot/internal/shared"
)

// Policy resolves the permission set for a principal. The assignment is
// static: the three business roles map onto fixed permission scopes.
type Policy struct {
	grants map[auth.Role][]string
}

// NewPolicy builds the default role assignment.
func NewPolicy() *Policy {
	return &Policy{
		grants: map[auth.Role][]string{
			auth.RoleClerk:   shared.ClerkScopes(),
			auth.RoleDriver:  shared.DriverScopes(),
			auth.RoleManager: shared.ManagerScopes(),
		},
	}
}

// EffectivePermissions returns the union of permissions granted by the
// principal's roles.
func (p *Policy) EffectivePermissions(principal *auth.Principal) []string {
	if principal == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var perms []string
	for _, role := range principal.Roles {
		for _, perm := range p.grants[role] {
			key := strings.ToLower(perm)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			perms = append(perms, perm)
		}
	}
	return perms
}

// Allows reports whether the principal holds the given permission.
func (p *Policy) Allows(principal *auth.Principal, perm string) bool {
	perm = strings.ToLower(strings.TrimSpace(perm))
	for _, granted := range p.EffectivePermissions(principal) {
		if strings.ToLower(granted) == perm {
			return true
		}
	}
	return false
}

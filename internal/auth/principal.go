// Package auth resolves the acting principal for a request. Identity is
// established by the fronting proxy and forwarded as trusted headers; this
// service only consumes it.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// Role is a coarse-grained actor role.
type Role string

const (
	RoleClerk   Role = "clerk"
	RoleDriver  Role = "driver"
	RoleManager Role = "manager"
)

// ParseRole normalises a role string. Unknown values return false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleClerk:
		return RoleClerk, true
	case RoleDriver:
		return RoleDriver, true
	case RoleManager:
		return RoleManager, true
	default:
		return "", false
	}
}

// Principal describes the authenticated actor.
type Principal struct {
	Name  string
	Roles []Role
}

// HasRole reports whether the principal carries the given role.
func (p *Principal) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Header names populated by the fronting proxy.
const (
	UserHeader  = "X-User"
	RolesHeader = "X-Roles"
)

type principalKey struct{}

// ContextWithPrincipal stores the principal on the context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the request principal, or nil when anonymous.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// Middleware extracts the principal from proxy headers. Requests without a
// user header proceed anonymously; role checks downstream reject them.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.Header.Get(UserHeader))
		if name == "" {
			next.ServeHTTP(w, r)
			return
		}
		var roles []Role
		for _, raw := range strings.Split(r.Header.Get(RolesHeader), ",") {
			if role, ok := ParseRole(raw); ok {
				roles = append(roles, role)
			}
		}
		ctx := ContextWithPrincipal(r.Context(), &Principal{Name: name, Roles: roles})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

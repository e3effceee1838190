package auth

import (
	"context"
	"net/http"
	"slices"
)

type Role struct {
	Name string `json:"name"`
}

type AuthenticationSource struct {
	Provider string `json:"provider"`
}

type User struct {
	Username             string               `json:"username"`
	AuthenticationSource AuthenticationSource `json:"authenticationSource"`
	Role                 Role                 `json:"role"`
}

type contextKey struct{ name string }

var userCtxKey = &contextKey{"user"}

// WithUser returns ctx carrying u, as the middleware does after a
// successful authentication.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

func userFrom(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userCtxKey).(User)
	return u, ok && u.Username != ""
}

func (m *Middleware) GetUser(ctx context.Context) User {
	u, _ := userFrom(ctx)
	return u
}

func (m *Middleware) IsAuthenticated(ctx context.Context) bool {
	_, ok := userFrom(ctx)
	return ok
}

func (m *Middleware) IsAdmin(ctx context.Context) bool {
	u, ok := userFrom(ctx)
	return ok && m.adminRole != "" && u.Role.Name == m.adminRole
}

// IsRole is true for the given role and for admins.
func (m *Middleware) IsRole(ctx context.Context, role Role) bool {
	return m.HasAnyRole(ctx, role.Name)
}

// HasAnyRole is true when the caller holds one of roles, or is an admin.
func (m *Middleware) HasAnyRole(ctx context.Context, roles ...string) bool {
	u, ok := userFrom(ctx)
	if !ok {
		return false
	}
	return m.IsAdmin(ctx) || slices.Contains(roles, u.Role.Name)
}

// IsUser is true for the named user and for admins.
func (m *Middleware) IsUser(ctx context.Context, usernames ...string) bool {
	u, ok := userFrom(ctx)
	if !ok {
		return false
	}
	return m.IsAdmin(ctx) || slices.Contains(usernames, u.Username)
}

// Dev-only user injection via headers when AUTH_DEV_BYPASS=true
func devUserFromHeaders(r *http.Request) User {
	user := r.Header.Get("X-Dev-User")
	if user == "" {
		return User{}
	}
	return User{
		Username:             user,
		AuthenticationSource: AuthenticationSource{Provider: firstNonEmpty(r.Header.Get("X-Dev-Provider"), "dev")},
		Role:                 Role{Name: r.Header.Get("X-Dev-Role")},
	}
}

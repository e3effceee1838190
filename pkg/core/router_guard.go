package core

import (
	"net/http"

	manifest "github.com/joeydtaylor/steeze-scorefn/pkg/manifest"
	"github.com/joeydtaylor/steeze-scorefn/pkg/middleware/auth"
)

func denied(w http.ResponseWriter, status int) {
	writeValue(w, errorBody{Error: errorDetail{Type: "security_exception", Reason: http.StatusText(status)}}, status)
}

// withGuard enforces the manifest's [registry.guard] on a handler. Admins
// pass any user or role restriction.
func withGuard(next http.HandlerFunc, a *auth.Middleware, g manifest.Guard) http.HandlerFunc {
	restricted := g.RequireAuth || len(g.Users) > 0 || len(g.Roles) > 0
	if !restricted {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		// Without auth middleware nobody can satisfy a restriction.
		if a == nil || !a.IsAuthenticated(r.Context()) {
			denied(w, http.StatusUnauthorized)
			return
		}
		ctx := r.Context()
		if len(g.Users) > 0 && !a.IsUser(ctx, g.Users...) {
			denied(w, http.StatusForbidden)
			return
		}
		if len(g.Roles) > 0 && !a.HasAnyRole(ctx, g.Roles...) {
			denied(w, http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

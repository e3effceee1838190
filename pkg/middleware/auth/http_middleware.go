package auth

import "net/http"

func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev bypass for local testing (NEVER enable in prod)
			if m.devBypass {
				if u := devUserFromHeaders(r); u.Username != "" {
					ctx := WithUser(r.Context(), u)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			// A presented bearer token must be valid.
			if raw := bearerToken(r.Header.Get("Authorization")); raw != "" && len(m.secret) > 0 {
				u, err := m.validateBearer(raw)
				if err != nil {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				ctx := WithUser(r.Context(), u)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// No credentials; continue unauthenticated
			next.ServeHTTP(w, r)
		})
	}
}

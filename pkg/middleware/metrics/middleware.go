package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/joeydtaylor/steeze-scorefn/pkg/middleware/auth"
)

// Collect records request counters and latency. Requests to /metrics itself
// are skipped.
func Collect(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				role := ""
				if ca != nil {
					role = ca.GetUser(r.Context()).Role.Name
				}
				code := strconv.Itoa(ww.Status())
				route := routeLabel(r)

				totalHttpRequestsFromRole.WithLabelValues(role).Inc()
				totalHttpRequestsToRoute.WithLabelValues(code, route, r.Method).Inc()
				totalHttpRequests.WithLabelValues(code, r.Method).Inc()
				responseTime.WithLabelValues(route).Observe(time.Since(start).Seconds())
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// routeLabel is the matched chi pattern ("/functions/{name}"), so function
// names never become label values. Unmatched requests share one label.
func routeLabel(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

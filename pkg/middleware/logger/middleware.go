package logger

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-scorefn/pkg/middleware/auth"
	"go.uber.org/zap"
)

const maxLoggedBody = 1 << 16 // 64 KiB

var (
	bodyLogMu    sync.RWMutex
	bodyLogPaths = map[string]struct{}{
		"/_parse": {},
	}
)

// AddBodyLogPaths extends the set of paths whose JSON request bodies are
// copied into the access log.
func AddBodyLogPaths(paths ...string) {
	bodyLogMu.Lock()
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			bodyLogPaths[p] = struct{}{}
		}
	}
	bodyLogMu.Unlock()
}

func wantsBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return false
	}
	bodyLogMu.RLock()
	_, ok := bodyLogPaths[r.URL.Path]
	bodyLogMu.RUnlock()
	return ok
}

// Only small JSON request bodies on allowlisted routes are logged.
func shouldLogBody(r *http.Request, body []byte) bool {
	return len(body) > 0 && len(body) <= maxLoggedBody && wantsBody(r)
}

// peekBody reads up to maxLoggedBody+1 bytes and puts them back in front of
// the rest of the body for the handler.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || !wantsBody(r) {
		return nil
	}
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	return head
}

func (m *Middleware) Middleware(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)
			body := peekBody(r)

			start := time.Now()
			defer func() {
				fields := []zap.Field{
					zap.String("dateTime", start.UTC().Format(time.RFC1123)),
					zap.String("requestId", chimd.GetReqID(r.Context())),
					zap.String("httpScheme", scheme(r)),
					zap.String("httpProto", r.Proto),
					zap.String("httpMethod", r.Method),
					zap.String("remoteAddr", r.RemoteAddr),
					zap.String("uri", r.URL.Path),
					zap.String("route", routePattern(r)),
					zap.Duration("lat", time.Since(start)),
					zap.Int("responseSize", ww.BytesWritten()),
					zap.Int("status", ww.Status()),
				}
				fields = append(fields, userFields(ca, r)...)
				// deprecation notices handed back to the client
				if warn := ww.Header().Values("Warning"); len(warn) > 0 {
					fields = append(fields, zap.Strings("warnings", warn))
				}
				if shouldLogBody(r, body) {
					fields = append(fields, zap.ByteString("requestData", body))
				}
				accessLogger().Info("", fields...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func userFields(ca *auth.Middleware, r *http.Request) []zap.Field {
	var u auth.User
	if ca != nil {
		u = ca.GetUser(r.Context())
	}
	return []zap.Field{
		zap.Bool("isAuthenticated", u.Username != ""),
		zap.String("username", u.Username),
		zap.String("role", u.Role.Name),
		zap.String("authenticationProvider", u.AuthenticationSource.Provider),
	}
}

func scheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		return rc.RoutePattern()
	}
	return ""
}

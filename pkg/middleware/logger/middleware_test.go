package logger

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joeydtaylor/steeze-scorefn/pkg/middleware/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetAccessLogger(zap.New(core))

	var got string
	h := (&Middleware{}).Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		w.Header().Add("Warning", `299 scorefn "old name"`)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	body := `{"weight": 2}`
	req := httptest.NewRequest(http.MethodPost, "/_parse", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, body, got, "body must be restored for the handler")
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.EqualValues(t, 5, fields["responseSize"])
	assert.Equal(t, "/_parse", fields["uri"])
	assert.Equal(t, body, fields["requestData"])
	assert.Equal(t, false, fields["isAuthenticated"])
	assert.Equal(t, []any{`299 scorefn "old name"`}, fields["warnings"])
}

func TestAccessLogWithUser(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetAccessLogger(zap.New(core))

	a := auth.New(auth.Config{DevBypass: true})
	h := a.Middleware()((&Middleware{}).Middleware(a)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/functions", nil)
	req.Header.Set("X-Dev-User", "dev")
	req.Header.Set("X-Dev-Role", "ops")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "dev", fields["username"])
	assert.Equal(t, "ops", fields["role"])
	assert.Equal(t, true, fields["isAuthenticated"])
	assert.NotContains(t, fields, "requestData")
	assert.NotContains(t, fields, "warnings")
}

func TestShouldLogBody(t *testing.T) {
	json := func(method, path string, body string) (*http.Request, []byte) {
		r := httptest.NewRequest(method, path, nil)
		r.Header.Set("Content-Type", "application/json")
		return r, []byte(body)
	}

	assert.True(t, shouldLogBody(json(http.MethodPost, "/_parse", `{}`)))
	assert.False(t, shouldLogBody(json(http.MethodGet, "/_parse", `{}`)))
	assert.False(t, shouldLogBody(json(http.MethodPost, "/other", `{}`)))
	assert.False(t, shouldLogBody(json(http.MethodPost, "/_parse", ``)))

	AddBodyLogPaths("/other")
	assert.True(t, shouldLogBody(json(http.MethodPost, "/other", `{}`)))
}

func TestLargeBodyIsRestoredButNotLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetAccessLogger(zap.New(core))

	big := `{"weight": 1, "pad": "` + strings.Repeat("x", maxLoggedBody) + `"}`
	var got int
	h := (&Middleware{}).Middleware(nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = len(b)
	}))
	req := httptest.NewRequest(http.MethodPost, "/_parse", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, len(big), got)
	require.Equal(t, 1, logs.Len())
	assert.NotContains(t, logs.All()[0].ContextMap(), "requestData")
}

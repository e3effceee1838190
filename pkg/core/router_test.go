package core

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	manifest "github.com/joeydtaylor/steeze-scorefn/pkg/manifest"
	"github.com/joeydtaylor/steeze-scorefn/pkg/middleware/auth"
	httpx "github.com/joeydtaylor/steeze-scorefn/pkg/transport/httpx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, cfg manifest.Config, a *auth.Middleware) *httptest.Server {
	t.Helper()
	require.NoError(t, cfg.Validate(KnownKind))
	reg, err := BuildRegistry(cfg)
	require.NoError(t, err)

	h := BuildRouter(cfg, BuildDeps{
		Auth:     a,
		Router:   httpx.NewChi(),
		Registry: reg,
		Metrics:  http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "# metrics") }),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var body map[string]any
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if len(b) > 0 && b[0] == '{' {
		require.NoError(t, json.Unmarshal(b, &body), string(b))
	}
	return res, body
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return do(t, req)
}

func get(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	return do(t, req)
}

func errorOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "no error object in %v", body)
	return e
}

func TestParseEndpoint(t *testing.T) {
	srv := newServer(t, manifest.Config{}, nil)

	res, body := post(t, srv.URL+"/_parse", `{"field_value_factor": {"field": "likes", "modifier": "log1p"}}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
	assert.Empty(t, res.Header.Get("Warning"))
	assert.Equal(t, "field_value_factor", body["kind"])
	fn := body["function"].(map[string]any)
	assert.Equal(t, "likes", fn["field"])
	assert.Equal(t, "log1p", fn["modifier"])
}

func TestParseEndpointDeprecatedName(t *testing.T) {
	srv := newServer(t, manifest.Config{}, nil)
	payload := `{"fieldValueFactor": {"field": "likes"}}`

	res, body := post(t, srv.URL+"/_parse", payload)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "field_value_factor", body["kind"])
	assert.Equal(t,
		`299 scorefn "Deprecated field [fieldValueFactor] used, expected [field_value_factor] instead"`,
		res.Header.Get("Warning"))

	res, body = post(t, srv.URL+"/_parse?policy=silent", payload)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, res.Header.Get("Warning"))

	res, body = post(t, srv.URL+"/_parse?policy=strict", payload)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	e := errorOf(t, body)
	assert.Equal(t, "deprecated_name", e["type"])
	assert.EqualValues(t, 1, e["line"])
	assert.EqualValues(t, 2, e["col"])
}

func TestParseEndpointManifestPolicy(t *testing.T) {
	srv := newServer(t, manifest.Config{Registry: manifest.RegistrySpec{Policy: "strict"}}, nil)

	res, body := post(t, srv.URL+"/_parse", `{"gaussian": {"date": {"origin": "now", "scale": "1d"}}}`)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "deprecated_name", errorOf(t, body)["type"])

	res, _ = post(t, srv.URL+"/_parse?policy=lenient", `{"gaussian": {"date": {"origin": "now", "scale": "1d"}}}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestParseEndpointErrors(t *testing.T) {
	srv := newServer(t, manifest.Config{}, nil)

	cases := []struct {
		name, url, body, typ string
		line, col           int
	}{
		{"unknown function", "/_parse", "{\n  \"boost_factor\": 2\n}", "named_object_not_found", 2, 3},
		{"bad body", "/_parse", `{"weight": -1}`, "parsing_exception", 1, 2},
		{"malformed", "/_parse", `{"weight" 2}`, "syntax_error", 1, 0},
		{"bad policy", "/_parse?policy=paranoid", `{"weight": 1}`, "illegal_argument", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, body := post(t, srv.URL+tc.url, tc.body)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			e := errorOf(t, body)
			assert.Equal(t, tc.typ, e["type"])
			assert.NotEmpty(t, e["reason"])
			if tc.line > 0 {
				assert.EqualValues(t, tc.line, e["line"])
			}
			if tc.col > 0 {
				assert.EqualValues(t, tc.col, e["col"])
			}
		})
	}
}

func TestUnknownFunctionMessage(t *testing.T) {
	srv := newServer(t, manifest.Config{}, nil)
	_, body := post(t, srv.URL+"/_parse", `{"boost_factor": 2}`)
	assert.Equal(t, "No function with the name [boost_factor] is registered.", errorOf(t, body)["reason"])
}

func TestFunctionsEndpoints(t *testing.T) {
	srv := newServer(t, manifest.Config{}, nil)

	res, err := http.Get(srv.URL + "/functions")
	require.NoError(t, err)
	defer res.Body.Close()
	var list []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&list))
	require.Len(t, list, 11)
	assert.Equal(t, "exp", list[0]["key"])
	assert.Equal(t, "fieldValueFactor", list[1]["key"])
	assert.Equal(t, "field_value_factor", list[1]["name"])

	res, body := get(t, srv.URL+"/functions/gaussian")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "gauss", body["name"])
	assert.Equal(t, true, body["deprecated_match"])
	assert.Equal(t, "deprecated", body["outcome"])
	assert.Equal(t, "Deprecated field [gaussian] used, expected [gauss] instead", body["notice"])
	assert.NotEmpty(t, res.Header.Get("Warning"))

	res, body = get(t, srv.URL+"/functions/gauss")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, false, body["deprecated_match"])
	assert.Equal(t, "match", body["outcome"])

	res, body = get(t, srv.URL+"/functions/gaussian?policy=strict")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "deprecated_name", errorOf(t, body)["type"])

	res, body = get(t, srv.URL+"/functions/nope")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "named_object_not_found", errorOf(t, body)["type"])
}

func TestHeartbeatAndMetrics(t *testing.T) {
	srv := newServer(t, manifest.Config{}, nil)

	res, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	b, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, "# metrics", string(b))
}

func TestGuard(t *testing.T) {
	cfg := manifest.Config{Registry: manifest.RegistrySpec{Guard: manifest.Guard{Roles: []string{"ops"}}}}

	t.Run("no auth middleware", func(t *testing.T) {
		srv := newServer(t, cfg, nil)
		res, _ := get(t, srv.URL+"/functions/gauss")
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	srv := newServer(t, cfg, auth.New(auth.Config{DevBypass: true, AdminRole: "admin"}))
	as := func(user, role string) int {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/functions/gauss", nil)
		require.NoError(t, err)
		if user != "" {
			req.Header.Set("X-Dev-User", user)
			req.Header.Set("X-Dev-Role", role)
		}
		res, _ := do(t, req)
		return res.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, as("", ""))
	assert.Equal(t, http.StatusForbidden, as("bob", "dev"))
	assert.Equal(t, http.StatusOK, as("alice", "ops"))
	assert.Equal(t, http.StatusOK, as("root", "admin"))

	// heartbeat stays open
	res, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

// routeRequests reads scorefn_http_requests_to_route_total from the default
// registry.
func routeRequests(t *testing.T, code, route, method string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "scorefn_http_requests_to_route_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["code"] == code && labels["route"] == route && labels["method"] == method {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestMetricsCollectedWithoutAuth(t *testing.T) {
	srv := newServer(t, manifest.Config{}, nil)
	before := routeRequests(t, "200", "/_parse", http.MethodPost)

	res, _ := post(t, srv.URL+"/_parse", `{"weight": 2}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	assert.Equal(t, before+1, routeRequests(t, "200", "/_parse", http.MethodPost))
}

package core

import (
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
	manifest "github.com/joeydtaylor/steeze-scorefn/pkg/manifest"
	hmetrics "github.com/joeydtaylor/steeze-scorefn/pkg/middleware/metrics"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func BuildRouter(cfg manifest.Config, d BuildDeps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))

	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
	}
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware(d.Auth))
	}
	// metrics collector that references auth state without copying it
	r.Use(hmetrics.Collect(d.Auth))

	if d.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", d.Metrics)
	}

	fh := functionHandlers{reg: d.Registry, policy: cfg.Registry.MatchPolicy(), log: d.Log}
	g := cfg.Registry.Guard
	r.Get("/functions", withGuard(fh.list, d.Auth, g))
	r.Get("/functions/{name}", withGuard(fh.resolve, d.Auth, g))
	r.Post("/_parse", withGuard(fh.parse, d.Auth, g))

	return r.Mux()
}

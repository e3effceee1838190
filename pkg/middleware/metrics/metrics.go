// middleware/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/joeydtaylor/steeze-scorefn/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// ProvideMetrics is the /metrics handler.
func ProvideMetrics() http.Handler { return promhttp.Handler() }

// ResolveObserver counts registry lookups. Keys are not used as labels;
// unknown names are client-controlled.
type ResolveObserver struct {
	total *prometheus.CounterVec
}

func NewResolveObserver() *ResolveObserver { return &ResolveObserver{total: resolveTotal} }

func (o *ResolveObserver) Observe(kind, _ string, outcome registry.Outcome) {
	o.total.WithLabelValues(kind, string(outcome)).Inc()
}

var _ registry.Observer = (*ResolveObserver)(nil)

var Module = fx.Options(
	fx.Provide(fx.Annotate(ProvideMetrics, fx.ResultTags(`name:"metrics"`))),
	fx.Provide(fx.Annotate(NewResolveObserver, fx.As(new(registry.Observer)))),
)

// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/steeze-scorefn/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-scorefn/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-scorefn/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provided to fx
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)

package core

import (
	"net/http"

	"github.com/joeydtaylor/steeze-scorefn/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-scorefn/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-scorefn/pkg/scorefn"
	httpx "github.com/joeydtaylor/steeze-scorefn/pkg/transport/httpx"
	"go.uber.org/zap"
)

type BuildDeps struct {
	Auth     *auth.Middleware
	LogMW    *logger.Middleware
	Metrics  http.Handler
	Router   httpx.Router
	Registry *scorefn.Registry
	Log      *zap.Logger
}

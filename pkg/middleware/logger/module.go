package logger

import "go.uber.org/fx"

var Module = fx.Options(
	fx.Provide(ProvideLoggerMiddleware),
	fx.Provide(ProvideLogger),
	fx.Provide(fx.Annotate(ProvideDeprecationLogger, fx.ResultTags(`name:"deprecation"`))),
)

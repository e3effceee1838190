package logger

import "go.uber.org/zap"

type Middleware struct{}

func ProvideLoggerMiddleware() *Middleware { return &Middleware{} }
func ProvideLogger() *zap.Logger           { return NewLog("system.log") }

// ProvideDeprecationLogger backs the registry's deprecation notices.
func ProvideDeprecationLogger() *zap.Logger {
	return NewLog("deprecation.log").Named("deprecation")
}

package logger

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logDir = "log"

func ensureLogDir() string {
	_ = os.MkdirAll(logDir, 0o755)
	return logDir
}

// NewLog tees JSON lines to a rotated file under log/ and to stdout.
func NewLog(n string) *zap.Logger {
	return newLog(n, zap.NewProductionEncoderConfig())
}

func newLog(n string, cfg zapcore.EncoderConfig) *zap.Logger {
	dir := ensureLogDir()

	console := zapcore.Lock(os.Stdout)

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, n),
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, zap.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), console, zap.InfoLevel),
	)
	return zap.New(core)
}

// access log lines carry everything in fields; the message is always empty.
func newAccessLog() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.MessageKey = zapcore.OmitKey
	return newLog("http-access.log", cfg)
}

var (
	accessMu         sync.RWMutex
	httpAccessLogger *zap.Logger
)

func accessLogger() *zap.Logger {
	accessMu.RLock()
	l := httpAccessLogger
	accessMu.RUnlock()
	if l != nil {
		return l
	}

	accessMu.Lock()
	defer accessMu.Unlock()
	if httpAccessLogger == nil {
		httpAccessLogger = newAccessLog()
	}
	return httpAccessLogger
}

// SetAccessLogger lets tests/CLIs override the access logger (optional).
func SetAccessLogger(l *zap.Logger) {
	if l != nil {
		accessMu.Lock()
		httpAccessLogger = l
		accessMu.Unlock()
	}
}

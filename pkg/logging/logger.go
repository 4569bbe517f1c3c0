// Package logging wraps zap with the printf-style helpers the CLI uses.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// New builds a console logger on stderr with ISO8601 timestamps.
func New(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cfg.DisableStacktrace = true
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// Init installs a logger built by New and returns it.
func Init(debug bool) *zap.Logger {
	l, err := New(debug)
	if err != nil {
		l = zap.NewNop()
	}
	SetLogger(l)
	return l
}

// SetLogger replaces the package logger.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// L returns the package logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debugf logs only when the logger was initialized with debug enabled.
func Debugf(format string, args ...interface{}) {
	L().Sugar().Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	L().Sugar().Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	L().Sugar().Warnf(format, args...)
}

// Package logger holds the process-wide zap logger.
package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	cfg := zap.Config{
		Level:            level,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		// stack traces only clutter a CLI
		DisableStacktrace: true,
	}

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	logger = l.Sugar()
}

// L returns the shared logger.
func L() *zap.SugaredLogger {
	if logger == nil {
		panic("logger is not initialized")
	}
	return logger
}

// Replace swaps the shared logger, mainly for tests that capture output.
func Replace(l *zap.SugaredLogger) {
	logger = l
}

func Close() {
	if err := L().Sync(); err != nil {
		// syncing stderr fails on some terminals; nothing to do about it
		L().Debug(errors.WithMessage(err, "failed to sync logger"))
	}
}

func SetLogLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// Level returns the current level.
func Level() zapcore.Level {
	return level.Level()
}

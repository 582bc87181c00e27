package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/focusd/winsnap/internal/config"
)

// createLogger builds the CLI logger: human-readable, on stderr.
func createLogger(cfg *config.Config) *zap.Logger {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(parseLevel(cfg.LogConfig.Level))
	zc.OutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true

	logger, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// createDaemonLogger builds the auto-save daemon logger: JSON to the log
// file, or stderr when none is configured.
func createDaemonLogger(cfg *config.Config) *zap.Logger {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(parseLevel(cfg.LogConfig.Level))
	if cfg.LogConfig.File != "" {
		zc.OutputPaths = []string{cfg.LogConfig.File}
		zc.ErrorOutputPaths = []string{cfg.LogConfig.File}
	}
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zc.Build()
	if err != nil {
		// Fallback to stderr if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger.With(zap.Int("pid", os.Getpid()))
}

func parseLevel(s string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

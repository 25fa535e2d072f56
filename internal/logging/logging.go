// Package logging wraps zap for the diagnostic side-channel: warnings
// on invalid arguments, self-check failures, and per-run bookkeeping.
// It is deliberately separate from the plain-text report the CLI
// prints to stdout — this is where a real deployment would send its
// structured logs instead.
package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a *zap.Logger, tagging every line with a run id.
type Logger struct {
	logger *zap.Logger
	runID  string
}

// Level mirrors zapcore.Level so callers don't need to import zap.
type Level zapcore.Level

const (
	Debug Level = Level(zapcore.DebugLevel)
	Info  Level = Level(zapcore.InfoLevel)
	Warn  Level = Level(zapcore.WarnLevel)
	Error Level = Level(zapcore.ErrorLevel)
)

// New builds a Logger at the given level, stamping every subsequent
// call with a freshly generated run id — one per Logger, not one per
// call, since a single-threaded simulator has exactly one logical
// "request" in flight at a time.
func New(level Level) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(level))
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zl, _ := cfg.Build()
	zap.ReplaceGlobals(zl)
	return &Logger{logger: zl, runID: uuid.New().String()}
}

func (l *Logger) fields(extra ...zap.Field) []zap.Field {
	return append([]zap.Field{zap.String("run_id", l.runID)}, extra...)
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.logger.Debug(msg, l.fields(fields...)...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.logger.Info(msg, l.fields(fields...)...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.logger.Warn(msg, l.fields(fields...)...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.logger.Error(msg, l.fields(fields...)...) }

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

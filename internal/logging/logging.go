// Package logging wires up the structured logger shared across the
// pipeline. Console summaries keep the teacher's emoji-prefixed,
// human-readable style; this package carries the structured warn/info/debug
// records the error taxonomy in SPEC_FULL.md §7 requires.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console-friendly zap logger. debug enables debug-level
// records (used by --debug-fetch/--debug-candidates).
func New(debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.CallerKey = ""
	cfg.DisableStacktrace = true

	return cfg.Build()
}

// NewNop returns a logger that discards everything, used in tests.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

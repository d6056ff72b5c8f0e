// Package diag builds the zap logger rentdesk writes diagnostics to.
//
// The terminal belongs to the UI, so entries always go to a JSON file under
// the configured log directory. The in-app diagnostics view tails that file.
package diag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Key names used in every entry. The diagnostics view parses these back.
const (
	TimeKey    = "ts"
	LevelKey   = "level"
	MessageKey = "msg"
)

// New opens (or creates) path and returns a logger writing JSON entries to
// it at the given level. The returned close func syncs and closes the file.
func New(path, level string) (*zap.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(EncoderConfig()),
		zapcore.AddSync(file),
		ParseLevel(level),
	)
	logger := zap.New(core, zap.AddCaller())

	closer := func() error {
		_ = logger.Sync()
		return file.Close()
	}
	return logger, closer, nil
}

// EncoderConfig returns the JSON encoder settings shared by file loggers and
// tests.
func EncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = TimeKey
	cfg.LevelKey = LevelKey
	cfg.MessageKey = MessageKey
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.StacktraceKey = ""
	return cfg
}

// ParseLevel maps a config string to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// Package logging builds the zap logger used across tally. The TUI owns
// the terminal, so logs always go to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/studiowebux/tally/internal/config"
)

// New returns a JSON logger writing to settings.File at settings.Level.
// An empty file yields a no-op logger.
func New(settings config.LogSettings) (*zap.Logger, error) {
	if settings.File == "" {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(settings.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(settings.File), config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{settings.File}
	cfg.ErrorOutputPaths = []string{settings.File}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

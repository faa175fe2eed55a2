// Package logging builds the zap logger. The TUI owns the terminal, so
// logs go to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Discard is the Path value that disables logging.
const Discard = "-"

// Options configures New.
type Options struct {
	// Path is the log file. Empty means DefaultPath(); Discard means no logs.
	Path  string
	Level string
	// Verbose forces debug level.
	Verbose bool
}

// DefaultPath returns $XDG_STATE_HOME/storymath/storymath.log, falling
// back to ~/.local/state.
func DefaultPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "storymath.log"
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "storymath", "storymath.log")
}

// New builds a JSON file logger from a production config.
func New(opts Options) (*zap.Logger, error) {
	if opts.Path == Discard {
		return zap.NewNop(), nil
	}
	path := opts.Path
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Sampling = nil

	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = l
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return logger, nil
}

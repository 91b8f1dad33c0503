// Package logger configures the process-wide slog logger used for
// diagnostics. Operator-facing output does not go through it.
package logger

import (
	"io"
	"log/slog"
	"sync"
)

// Config selects the log destination and verbosity.
type Config struct {
	Out   io.Writer
	Debug bool
}

var (
	mu     sync.RWMutex
	global = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Setup installs a text handler writing to cfg.Out at INFO, or DEBUG with
// source locations when cfg.Debug is set. It also becomes slog.Default.
// A nil Out discards everything.
func Setup(cfg Config) *slog.Logger {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	l := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.Debug,
	}))

	mu.Lock()
	global = l
	mu.Unlock()
	slog.SetDefault(l)

	return l
}

// L returns the logger installed by Setup, or a discarding logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

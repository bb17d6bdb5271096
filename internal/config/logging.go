package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// configKeyCtx is used to store config in context.
type configKeyCtx struct{}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// NewLogger builds the process logger. Output goes to stderr unless a log
// file is configured, in which case it is written to a rotating file.
// The returned closer releases the file and must be called on exit.
func NewLogger(cfg LogConfig, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	w := stderr
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		w, closer = lj, lj
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// WithConfig returns a context carrying cfg.
func WithConfig(ctx context.Context, cfg *Loaded) context.Context {
	return context.WithValue(ctx, configKeyCtx{}, cfg)
}

// FromContext retrieves the config from the command context, falling back
// to the defaults.
func FromContext(ctx context.Context) *Loaded {
	if ctx != nil {
		if c, ok := ctx.Value(configKeyCtx{}).(*Loaded); ok {
			return c
		}
	}
	return &Loaded{Config: Default()}
}

package vpsearch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with helpers for the build and query paths.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr at Info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that writes human-readable text to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{Logger: l.Logger.With("path", path)}
}

// LogBuild logs the outcome of a tree build.
func (l *Logger) LogBuild(ctx context.Context, records int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"records", records,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "build completed",
		"records", records,
		"elapsed", elapsed,
	)
}

// LogPersist logs the outcome of writing an index directory.
func (l *Logger) LogPersist(ctx context.Context, dir string, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "persist failed",
			"dir", dir,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "persist completed",
		"dir", dir,
		"records", records,
	)
}

// LogLoad logs the outcome of loading an index directory.
func (l *Logger) LogLoad(ctx context.Context, dir string, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"dir", dir,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "load completed",
		"dir", dir,
		"records", records,
	)
}

// LogQuery logs a single query.
func (l *Logger) LogQuery(ctx context.Context, query string, k, found, visited int, err error) {
	if err != nil {
		l.WarnContext(ctx, "query failed",
			"query", query,
			"k", k,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "query completed",
		"query", query,
		"k", k,
		"results", found,
		"visited", visited,
	)
}

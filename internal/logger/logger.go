// Package logger provides context-aware structured logging built on
// logrus, following the logging conventions of the kodelet codebase.
// Cleanup paths in the SDK log through it at debug/warn level so that
// best-effort failures are visible without ever escalating.
package logger

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

var (
	// G is shorthand for GetLogger.
	G = GetLogger
	// L is the global fallback logger entry.
	L = logrus.NewEntry(newLogger())
)

type loggerKey struct{}

// WithLogger attaches a logger entry to ctx, retrievable via GetLogger.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, entry.WithContext(ctx))
}

// GetLogger returns the logger stored in ctx, or the global fallback.
func GetLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
		return entry
	}
	return L.WithContext(ctx)
}

// SetLevel sets the level of the global logger.
func SetLevel(level logrus.Level) {
	L.Logger.SetLevel(level)
}

// SetOutput redirects the global logger output. Tests use this to
// capture log lines.
func SetOutput(w io.Writer) {
	L.Logger.SetOutput(w)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: false})
	return l
}

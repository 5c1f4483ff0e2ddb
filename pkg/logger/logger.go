package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

const (
	EMPTY      = ""
	DEBUG      = "debug"
	INFO       = "info"
	WARN       = "warn"
	ERROR      = "error"
	JSON       = "json"
	TEXT       = "text"
	SERVICE    = "service"
	REQUEST_ID = "request_id"
)

type ctxKey struct{}

type Logger struct {
	*slog.Logger
}

type Config struct {
	Level     string
	Format    string
	Output    io.Writer
	AddSource bool
	Service   string
}

func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Format == EMPTY {
		cfg.Format = JSON
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == JSON {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	if cfg.Service != EMPTY {
		handler = handler.WithAttrs([]slog.Attr{
			slog.String(SERVICE, cfg.Service),
		})
	}

	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) slog.Level {
	switch level {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID stores the request id on ctx so downstream log lines can be correlated.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return EMPTY
	}
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return EMPTY
}

// Ctx returns a child logger carrying the request id found on ctx, if any.
func (l *Logger) Ctx(ctx context.Context) *Logger {
	if id := RequestID(ctx); id != EMPTY {
		return &Logger{Logger: l.With(REQUEST_ID, id)}
	}
	return l
}

// Fatal logs a critical error and exits the application with status code 1
// Use this for unrecoverable errors that prevent the application from starting or continuing
func (l *Logger) Fatal(msg string, args ...any) {
	l.Error(msg, args...)
	os.Exit(1)
}

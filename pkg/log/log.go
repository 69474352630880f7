package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger is an alias for slog.Logger
type Logger = slog.Logger

// LevelOK marks the successful completion of a unit of work (a file written,
// a stage finished). It sorts between INFO and WARN.
const LevelOK = slog.LevelInfo + 2

var defaultLogger *Logger

// Convenience variables to match slog's API
var (
	String  = slog.String
	Int     = slog.Int
	Float64 = slog.Float64
	Any     = slog.Any
)

// Package-level logging functions
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

func OK(msg string, args ...any) {
	defaultLogger.Log(context.Background(), LevelOK, msg, args...)
}

// OKTo logs at LevelOK on the given logger.
func OKTo(l *Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelOK, msg, args...)
}

func Errorf(format string, args ...any) {
	defaultLogger.Error(fmt.Sprintf(format, args...))
}

func Err(err error) slog.Attr {
	return slog.Attr{Key: "error", Value: slog.AnyValue(err)}
}

func FilePath(path string) slog.Attr {
	return slog.Attr{Key: "file_path", Value: slog.AnyValue(path)}
}

func URL(url string) slog.Attr {
	return slog.Attr{Key: "url", Value: slog.StringValue(url)}
}

// PrefixHandler is a simple wrapper around slog.Handler that adds a prefix to all messages
type PrefixHandler struct {
	prefix  string
	handler slog.Handler
}

func init() {
	defaultLogger = New(os.Stderr)
}

// New builds a logger writing text records to w, with LevelOK rendered as "OK".
func New(w io.Writer) *Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		ReplaceAttr: replaceLevel,
	})
	return slog.New(&PrefixHandler{handler: h})
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelOK {
		a.Value = slog.StringValue("OK")
	}
	return a
}

// WithPrefix returns a new logger with the specified prefix
func WithPrefix(prefix string) *Logger {
	return slog.New(&PrefixHandler{
		prefix:  prefix,
		handler: defaultLogger.Handler(),
	})
}

func SetLogger(l *Logger) {
	defaultLogger = l
}

// Handle implements slog.Handler interface
func (h *PrefixHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.prefix != "" {
		r.Message = fmt.Sprintf("[%s] %s", h.prefix, r.Message)
	}
	return h.handler.Handle(ctx, r)
}

// WithAttrs implements slog.Handler interface
func (h *PrefixHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrefixHandler{
		prefix:  h.prefix,
		handler: h.handler.WithAttrs(attrs),
	}
}

// WithGroup implements slog.Handler interface
func (h *PrefixHandler) WithGroup(name string) slog.Handler {
	return &PrefixHandler{
		prefix:  h.prefix,
		handler: h.handler.WithGroup(name),
	}
}

// Enabled implements slog.Handler interface
func (h *PrefixHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

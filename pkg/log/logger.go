// Package log configures the structured logger shared by the encoder and the rtasm command.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	slogmulti "github.com/samber/slog-multi"
)

const (
	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError
)

var root atomic.Pointer[slog.Logger]

func init() {
	root.Store(slog.New(discardHandler{}))
}

// Parses a level name (trace, debug, info, warn, error)
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO", "":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	}

	return 0, fmt.Errorf("invalid log level '%s'", level)
}

// Returns the lowercase name of a level
func LevelString(level slog.Level) string {
	switch level {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}

	return "unknown"
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelString(level))
		}
	}

	return a
}

// Logger outputs
type Options struct {
	// Minimum level of records written to the console
	Level slog.Level
	// Console output (text format). Nil disables it
	Console io.Writer
	// JSON output, usually a log file. Nil disables it
	JSON io.Writer
}

// Returns a logger writing text records to the console and JSON records to the json writer
func New(options Options) *slog.Logger {
	handlerOptions := &slog.HandlerOptions{
		Level:       options.Level,
		ReplaceAttr: replaceLevel,
	}

	handlers := make([]slog.Handler, 0, 2)

	if options.Console != nil {
		handlers = append(handlers, slog.NewTextHandler(options.Console, handlerOptions))
	}

	if options.JSON != nil {
		handlers = append(handlers, slog.NewJSONHandler(options.JSON, handlerOptions))
	}

	switch len(handlers) {
	case 0:
		return slog.New(discardHandler{})
	case 1:
		return slog.New(handlers[0])
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// Configures the root logger from a level name and an optional JSON log file. Returns a
// function closing the log file
func Setup(level string, file string) (func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	options := Options{
		Level:   lvl,
		Console: os.Stderr,
	}

	closer := func() error { return nil }

	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("error opening log file '%s': %w", file, err)
		}

		options.JSON = f
		closer = f.Close
	}

	SetDefault(New(options))
	return closer, nil
}

// Sets the root logger
func SetDefault(l *slog.Logger) {
	root.Store(l)
}

// Returns the root logger
func Root() *slog.Logger {
	return root.Load()
}

// Logs a message at trace level
func Trace(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelTrace, msg, args...)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

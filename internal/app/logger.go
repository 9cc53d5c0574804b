package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// LogEnvVar names a file that receives debug-level JSON logs in addition to the console.
const LogEnvVar = "CPPFMT_LOG_FILE"

// setupLogger configures a logger that writes clean, human-readable logs to the
// console and, when logPath is set, structured logs to that file.
// The returned closer is never nil.
func setupLogger(stderr io.Writer, logLevel *slog.LevelVar, logPath string) (*slog.Logger, io.Closer, error) {
	consoleHandler := &consoleHandler{
		w:     stderr,
		level: logLevel,
	}
	if logPath == "" {
		return slog.New(consoleHandler), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(consoleHandler), io.NopCloser(nil), err
	}

	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug, // File always gets full debug info
	})
	multi := &multiHandler{
		handlers: []slog.Handler{fileHandler, consoleHandler},
	}
	return slog.New(multi), f, nil
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

type consoleHandler struct {
	w     io.Writer
	level *slog.LevelVar
	attrs []slog.Attr
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	switch {
	case record.Level >= slog.LevelError:
		fmt.Fprintf(c.w, "Error: %s", record.Message)
	case record.Level >= slog.LevelWarn:
		fmt.Fprintf(c.w, "Warning: %s", record.Message)
	default:
		fmt.Fprint(c.w, record.Message)
	}

	for _, a := range c.attrs {
		c.formatAttr(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		c.formatAttr(a)
		return true
	})

	fmt.Fprintln(c.w)
	return nil
}

// formatAttr shows errors and paths always, everything else only at debug level.
func (c *consoleHandler) formatAttr(a slog.Attr) {
	switch {
	case a.Key == "error" || a.Key == "err":
		fmt.Fprintf(c.w, ": %v", a.Value)
	case a.Key == "path":
		fmt.Fprintf(c.w, " %v", a.Value)
	case c.level.Level() <= slog.LevelDebug:
		fmt.Fprintf(c.w, " %s=%v", a.Key, a.Value)
	}
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		w:     c.w,
		level: c.level,
		attrs: append(append([]slog.Attr(nil), c.attrs...), attrs...),
	}
}

func (c *consoleHandler) WithGroup(_ string) slog.Handler {
	// Grouping is not supported in this simple console output.
	return c
}

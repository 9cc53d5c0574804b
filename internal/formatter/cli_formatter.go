package formatter

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// lookPath is a variable for exec.LookPath to allow mocking in tests.
var lookPath = exec.LookPath

// CLIFormatter is the concrete implementation of Formatter using the clang-format CLI.
type CLIFormatter struct {
	binary string
	jobs   int
	logger *slog.Logger
	output io.Writer
}

// NewCLIFormatter creates a CLIFormatter. The formatter's own output is copied to output.
// With jobs above one, files are split into batches that run concurrently.
func NewCLIFormatter(logger *slog.Logger, binary string, jobs int, output io.Writer) *CLIFormatter {
	if binary == "" {
		binary = DefaultBinary
	}
	if output == nil {
		output = io.Discard
	}
	return &CLIFormatter{
		binary: binary,
		jobs:   max(1, jobs),
		logger: logger.With("component", "formatter"),
		output: &lockedWriter{w: output},
	}
}

// Binary returns the formatter executable name or path.
func (f *CLIFormatter) Binary() string {
	return f.binary
}

// CheckInstalled verifies the binary can be found.
func (f *CLIFormatter) CheckInstalled() error {
	path, err := lookPath(f.binary)
	if err != nil {
		return &ToolNotInstalledError{Tool: f.binary, Wrapped: err}
	}
	f.logger.Debug("found formatter", "path", path)
	return nil
}

// Format rewrites the files in place.
func (f *CLIFormatter) Format(ctx context.Context, styleFile string, files []string) error {
	return f.run(ctx, styleFile, false, files)
}

// Check runs the formatter in dry-run mode, failing if any file would change.
func (f *CLIFormatter) Check(ctx context.Context, styleFile string, files []string) error {
	return f.run(ctx, styleFile, true, files)
}

func (f *CLIFormatter) run(ctx context.Context, styleFile string, check bool, files []string) error {
	batches := Batches(files, f.jobs)
	switch len(batches) {
	case 0:
		return nil
	case 1:
		return f.invoke(ctx, styleFile, check, batches[0])
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, batch := range batches {
		g.Go(func() error {
			return f.invoke(gctx, styleFile, check, batch)
		})
	}
	return g.Wait()
}

func (f *CLIFormatter) invoke(ctx context.Context, styleFile string, check bool, files []string) error {
	//nolint:gosec // the binary is chosen by the user and arguments are file paths
	cmd := exec.CommandContext(ctx, f.binary, Arguments(styleFile, check, files)...)
	cmd.Stdout = f.output
	cmd.Stderr = f.output

	start := time.Now()
	err := cmd.Run()
	f.logger.Debug("formatter finished", "files", len(files), "check", check, "duration", time.Since(start))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &FormatterFailedError{Tool: f.binary, Files: len(files), Check: check, Wrapped: err}
	}
	return nil
}

// lockedWriter serialises writes from concurrently running batches.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/andyballingall/cppfmt/internal/config"
	"github.com/andyballingall/cppfmt/internal/formatter"
	"github.com/andyballingall/cppfmt/internal/report"
	"github.com/andyballingall/cppfmt/internal/sources"
	"github.com/andyballingall/cppfmt/internal/watch"
)

// Request carries everything a run needs once flags, environment and settings are merged.
type Request struct {
	// WorkDir is where the style file is searched for and exclude globs are rooted.
	WorkDir         string
	Paths           []string
	Ignore          []string
	Exclude         []string
	Extensions      []string
	CompileCommands string
	StyleFile       string
	Formatter       string
	Jobs            int
	Check           bool
	NoIgnoreFile    bool
	Output          string
	Verbose         bool
}

// Manager defines the operations behind the cppfmt command line.
type Manager interface {
	Format(ctx context.Context, req Request) error
	List(ctx context.Context, req Request) error
	Watch(ctx context.Context, req Request, readyChan chan<- struct{}) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Format(ctx context.Context, req Request) error {
	return l.check().Format(ctx, req)
}

func (l *LazyManager) List(ctx context.Context, req Request) error {
	return l.check().List(ctx, req)
}

func (l *LazyManager) Watch(ctx context.Context, req Request, readyChan chan<- struct{}) error {
	return l.check().Watch(ctx, req, readyChan)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger       *slog.Logger
	stdout       io.Writer
	stderr       io.Writer
	newFormatter func(binary string, jobs int) formatter.Formatter
}

// NewCLIManager creates a CLIManager. Listings go to stdout; diagnostics and the
// formatter's own output go to stderr.
func NewCLIManager(l *slog.Logger, stdout, stderr io.Writer) *CLIManager {
	return &CLIManager{
		logger: l,
		stdout: stdout,
		stderr: stderr,
		newFormatter: func(binary string, jobs int) formatter.Formatter {
			return formatter.NewCLIFormatter(l, binary, jobs, stderr)
		},
	}
}

// plan is a resolved file set together with the style file to apply.
type plan struct {
	resolver  *sources.Resolver
	result    *sources.Result
	styleFile string
}

func (m *CLIManager) prepare(req Request) (*plan, error) {
	var matchers []sources.Matcher
	if len(req.Exclude) > 0 {
		glob, err := sources.NewGlobMatcher(req.WorkDir, req.Exclude)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, glob)
	}
	if !req.NoIgnoreFile {
		ignoreFile, err := sources.LoadIgnoreFile(req.WorkDir)
		if err != nil {
			return nil, err
		}
		if ignoreFile != nil {
			m.logger.Debug("using ignore file", "dir", req.WorkDir)
			matchers = append(matchers, ignoreFile)
		}
	}

	paths := req.Paths
	if req.CompileCommands != "" {
		files, err := sources.LoadCompileCommands(req.CompileCommands)
		if err != nil {
			return nil, err
		}
		m.logger.Debug("loaded compile database", "entries", len(files))
		paths = append(append([]string(nil), paths...), files...)
	}

	resolver := sources.NewResolver(m.logger, req.Extensions, matchers...)
	res, err := resolver.Resolve(paths, req.Ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve search paths: %w", err)
	}
	if len(res.Invalid) > 0 {
		fmt.Fprintln(m.stderr, "Invalid paths:")
		for _, p := range res.Invalid {
			fmt.Fprintln(m.stderr, p)
		}
	}

	var styleFile string
	if req.StyleFile != "" {
		styleFile, err = config.StyleFileFromPath(req.StyleFile)
	} else {
		styleFile, err = config.LocateStyleFile(req.WorkDir)
	}
	if err != nil {
		return nil, err
	}
	m.logger.Debug("using style file", "styleFile", styleFile)

	return &plan{resolver: resolver, result: res, styleFile: styleFile}, nil
}

// Format formats every resolved file in place, or only checks them when req.Check is set.
// The formatter must be installed before any path is examined.
func (m *CLIManager) Format(ctx context.Context, req Request) error {
	m.logger.Debug("formatting", "paths", req.Paths, "ignore", req.Ignore, "check", req.Check)

	f := m.newFormatter(req.Formatter, req.Jobs)
	if err := f.CheckInstalled(); err != nil {
		return err
	}

	p, err := m.prepare(req)
	if err != nil {
		return err
	}
	return m.run(ctx, f, p.styleFile, req.Check, p.result.Files)
}

// List writes the files that Format would touch without running the formatter.
func (m *CLIManager) List(_ context.Context, req Request) error {
	m.logger.Debug("listing", "paths", req.Paths, "ignore", req.Ignore, "output", req.Output)

	reporter, err := report.New(req.Output, req.Verbose)
	if err != nil {
		return err
	}

	p, err := m.prepare(req)
	if err != nil {
		return err
	}

	return reporter.Write(m.stdout, &report.Listing{
		StyleFile: p.styleFile,
		Files:     p.result.Files,
		Invalid:   p.result.Invalid,
	})
}

// Watch formats once, then keeps formatting source files as they change beneath the
// resolved directories. If you want to know when the watcher is ready to start
// listening to changes, pass a non-nil readyChan to be notified.
func (m *CLIManager) Watch(ctx context.Context, req Request, readyChan chan<- struct{}) error {
	m.logger.Debug("watching", "paths", req.Paths, "ignore", req.Ignore, "check", req.Check)

	f := m.newFormatter(req.Formatter, req.Jobs)
	if err := f.CheckInstalled(); err != nil {
		return err
	}

	p, err := m.prepare(req)
	if err != nil {
		return err
	}
	if len(p.result.Roots) == 0 {
		return &NoWatchRootsError{}
	}
	if err = m.run(ctx, f, p.styleFile, req.Check, p.result.Files); err != nil {
		return err
	}

	roots, ignored := p.result.Roots, p.result.Ignored
	watcher := watch.NewWatcher(m.logger, roots,
		func(path string) bool { return p.resolver.Accepts(path, roots, ignored) },
		func(path string) bool { return p.resolver.SkipsDir(path, ignored) },
	)

	callback := func(ctx context.Context, files []string) {
		m.logger.Info("Files changed:", "count", len(files))
		if err := m.run(ctx, f, p.styleFile, req.Check, files); err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Error("Formatting failed", "error", err)
		}
	}

	// Forward watcher Ready signal if caller wants notification
	if readyChan != nil {
		go func() {
			<-watcher.Ready
			readyChan <- struct{}{}
		}()
	}

	err = watcher.Watch(ctx, callback)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (m *CLIManager) run(ctx context.Context, f formatter.Formatter, styleFile string, check bool, files []string) error {
	if len(files) == 0 {
		m.logger.Info("No files to format")
		return nil
	}

	if check {
		if err := f.Check(ctx, styleFile, files); err != nil {
			return err
		}
		m.logger.Info(fmt.Sprintf("Checked %d files", len(files)))
		return nil
	}

	if err := f.Format(ctx, styleFile, files); err != nil {
		return err
	}
	m.logger.Info(fmt.Sprintf("Formatted %d files", len(files)))
	return nil
}

package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/cppfmt/internal/formatter"
)

type MockManager struct {
	mock.Mock
}

func (m *MockManager) Format(ctx context.Context, req Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockManager) List(ctx context.Context, req Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockManager) Watch(ctx context.Context, req Request, readyChan chan<- struct{}) error {
	args := m.Called(ctx, req, readyChan)
	return args.Error(0)
}

// formatCall records one Format or Check call on a fakeFormatter.
type formatCall struct {
	StyleFile string
	Check     bool
	Files     []string
}

// fakeFormatter is a test double for formatter.Formatter.
type fakeFormatter struct {
	mu         sync.Mutex
	installErr error
	onFormat   func(files []string) error
	calls      []formatCall
}

var _ formatter.Formatter = (*fakeFormatter)(nil)

func (f *fakeFormatter) CheckInstalled() error {
	return f.installErr
}

func (f *fakeFormatter) Format(_ context.Context, styleFile string, files []string) error {
	return f.record(styleFile, false, files)
}

func (f *fakeFormatter) Check(_ context.Context, styleFile string, files []string) error {
	return f.record(styleFile, true, files)
}

func (f *fakeFormatter) record(styleFile string, check bool, files []string) error {
	f.mu.Lock()
	f.calls = append(f.calls, formatCall{StyleFile: styleFile, Check: check, Files: slices.Clone(files)})
	onFormat := f.onFormat
	f.mu.Unlock()
	if onFormat != nil {
		return onFormat(files)
	}
	return nil
}

func (f *fakeFormatter) Calls() []formatCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestManager returns a CLIManager whose formatter is ff, with output captured.
func newTestManager(ff formatter.Formatter, stdout, stderr io.Writer) *CLIManager {
	m := NewCLIManager(discardLogger(), stdout, stderr)
	m.newFormatter = func(string, int) formatter.Formatter { return ff }
	return m
}

// makeProject creates the given slash-separated files under a fresh temp dir and
// returns its resolved path.
func makeProject(t *testing.T, names ...string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	for _, n := range names {
		p := filepath.Join(root, filepath.FromSlash(n))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("int x;\n"), 0o600))
	}
	return root
}

func joinAll(root string, names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, filepath.Join(root, filepath.FromSlash(n)))
	}
	return out
}

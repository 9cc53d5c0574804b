package app

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/cppfmt/internal/config"
	"github.com/andyballingall/cppfmt/internal/formatter"
	"github.com/andyballingall/cppfmt/internal/fs"
)

type rootFixture struct {
	mgr      *MockManager
	logLevel *slog.LevelVar
	cmd      *cobra.Command
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
}

func newRootFixture(env fs.EnvProvider) *rootFixture {
	f := &rootFixture{
		mgr:      &MockManager{},
		logLevel: &slog.LevelVar{},
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
	}
	lazy := &LazyManager{inner: f.mgr}
	f.cmd = NewRootCmd(lazy, discardLogger(), f.logLevel, f.stdout, f.stderr, env)
	f.cmd.SetOut(f.stdout)
	f.cmd.SetErr(f.stderr)
	return f
}

func (f *rootFixture) run(args ...string) error {
	f.cmd.SetArgs(args)
	return f.cmd.Execute()
}

// defaultRequest is the request built with no flags, environment or settings.
func defaultRequest(t *testing.T) Request {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	return Request{
		WorkDir:   wd,
		Paths:     []string{"."},
		Formatter: formatter.DefaultBinary,
		Jobs:      1,
		Output:    "text",
	}
}

func TestRootCmd(t *testing.T) {
	t.Parallel()

	t.Run("execute help", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{})
		require.NoError(t, f.run("--help"))
		assert.Contains(t, f.stdout.String(), "cppfmt formats C and C++ sources")
		f.mgr.AssertNotCalled(t, "Format", mock.Anything, mock.Anything)
	})

	t.Run("test version flag", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{})
		require.NoError(t, f.run("--version"))
		assert.Contains(t, f.stdout.String(), Version)
	})

	t.Run("test completion command", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{})
		require.NoError(t, f.run("completion", "bash"))
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{})
		require.Error(t, f.run("src"))
		f.mgr.AssertNotCalled(t, "Format", mock.Anything, mock.Anything)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{})
		f.mgr.On("Format", mock.Anything, defaultRequest(t)).Return(nil)
		require.NoError(t, f.run())
		f.mgr.AssertExpectations(t)
	})

	t.Run("all format flags", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{})
		want := defaultRequest(t)
		want.Paths = []string{"src", "include", "tools/main.cpp"}
		want.Ignore = []string{"src/vendor"}
		want.Exclude = []string{"**/*.pb.h", "gen/**"}
		want.CompileCommands = "build/compile_commands.json"
		want.StyleFile = "styles/.clang-format"
		want.Formatter = "clang-format-18"
		want.Jobs = 4
		want.Check = true
		want.NoIgnoreFile = true
		f.mgr.On("Format", mock.Anything, want).Return(nil)

		require.NoError(t, f.run(
			"-p", "src, include", "--path", "tools/main.cpp",
			"-i", "src/vendor",
			"-e", "**/*.pb.h,gen/**",
			"--compile-commands", "build/compile_commands.json",
			"--style-file", "styles/.clang-format",
			"--formatter", "clang-format-18",
			"-j", "4",
			"--check",
			"--no-ignore-file",
		))
		f.mgr.AssertExpectations(t)
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{})
		want := defaultRequest(t)
		want.Output = "json"
		f.mgr.On("List", mock.Anything, want).Return(nil)
		require.NoError(t, f.run("-l", "-o", "json"))
		f.mgr.AssertExpectations(t)
	})

	t.Run("watch", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{})
		f.mgr.On("Watch", mock.Anything, defaultRequest(t), mock.Anything).Return(nil)
		require.NoError(t, f.run("--watch"))
		f.mgr.AssertExpectations(t)
	})

	t.Run("test debug flag", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{})
		want := defaultRequest(t)
		want.Verbose = true
		f.mgr.On("Format", mock.Anything, want).Return(nil)
		require.NoError(t, f.run("--debug"))
		assert.Equal(t, slog.LevelDebug, f.logLevel.Level())
	})

	t.Run("list and watch are exclusive", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{})
		require.Error(t, f.run("--list", "--watch"))
		f.mgr.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("invalid output format", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{})
		err := f.run("--list", "--output", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be 'text' or 'json'")
	})

	t.Run("invalid jobs", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{})
		err := f.run("--jobs", "0")
		var jobsErr *InvalidJobsError
		require.ErrorAs(t, err, &jobsErr)
		assert.Equal(t, 0, jobsErr.Jobs)
	})

	t.Run("formatter from environment", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{formatter.BinaryEnvVar: "/opt/llvm/bin/clang-format"})
		want := defaultRequest(t)
		want.Formatter = "/opt/llvm/bin/clang-format"
		f.mgr.On("Format", mock.Anything, want).Return(nil)
		require.NoError(t, f.run())
		f.mgr.AssertExpectations(t)
	})

	t.Run("formatter flag beats environment", func(t *testing.T) {
		t.Parallel()
		f := newRootFixture(fs.MapEnvProvider{formatter.BinaryEnvVar: "/opt/llvm/bin/clang-format"})
		want := defaultRequest(t)
		want.Formatter = "clang-format-14"
		f.mgr.On("Format", mock.Anything, want).Return(nil)
		require.NoError(t, f.run("--formatter", "clang-format-14"))
		f.mgr.AssertExpectations(t)
	})
}

func TestRootCmd_Settings(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Chdir(dir)

	settings := `
paths: [src, include]
ignore: [src/vendor]
exclude: ["**/*.pb.h"]
extensions: [.cu]
formatter: clang-format-15
jobs: 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte(settings), 0o600))

	fromSettings := Request{
		WorkDir:    dir,
		Paths:      []string{"src", "include"},
		Ignore:     []string{"src/vendor"},
		Exclude:    []string{"**/*.pb.h"},
		Extensions: []string{".cu"},
		Formatter:  "clang-format-15",
		Jobs:       3,
		Output:     "text",
	}

	t.Run("settings apply", func(t *testing.T) {
		f := newRootFixture(fs.MapEnvProvider{})
		f.mgr.On("Format", mock.Anything, fromSettings).Return(nil)
		require.NoError(t, f.run())
		f.mgr.AssertExpectations(t)
	})

	t.Run("environment beats settings", func(t *testing.T) {
		f := newRootFixture(fs.MapEnvProvider{formatter.BinaryEnvVar: "clang-format-19"})
		want := fromSettings
		want.Formatter = "clang-format-19"
		f.mgr.On("Format", mock.Anything, want).Return(nil)
		require.NoError(t, f.run())
		f.mgr.AssertExpectations(t)
	})

	t.Run("flags beat settings", func(t *testing.T) {
		f := newRootFixture(fs.MapEnvProvider{})
		want := fromSettings
		want.Paths = []string{"lib"}
		want.Ignore = []string{"lib/old"}
		want.Exclude = []string{"*.inl"}
		want.Jobs = 1
		f.mgr.On("Format", mock.Anything, want).Return(nil)
		require.NoError(t, f.run("-p", "lib", "-i", "lib/old", "-e", "*.inl", "-j", "1"))
		f.mgr.AssertExpectations(t)
	})
}

func TestRootCmd_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte("jobs: 0\n"), 0o600))

	f := newRootFixture(fs.MapEnvProvider{})
	err := f.run()
	var invalid *config.InvalidSettingsError
	require.ErrorAs(t, err, &invalid)
	f.mgr.AssertNotCalled(t, "Format", mock.Anything, mock.Anything)
}

func TestInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates settings file", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "project")
		// An empty lazy manager proves init needs no initialisation.
		var stdout bytes.Buffer
		cmd := NewRootCmd(&LazyManager{}, discardLogger(), &slog.LevelVar{}, &stdout, &bytes.Buffer{}, fs.MapEnvProvider{})
		cmd.SetOut(&stdout)
		cmd.SetArgs([]string{"init", dir})
		require.NoError(t, cmd.Execute())

		path := filepath.Join(dir, config.SettingsFile)
		assert.FileExists(t, path)
		assert.Contains(t, stdout.String(), "Successfully created settings file: "+path)

		s, err := config.LoadSettings(dir)
		require.NoError(t, err)
		assert.Equal(t, 1, s.Jobs)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte("jobs: 2\n"), 0o600))

		cmd := NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{dir})
		err := cmd.Execute()
		var exists *config.SettingsExistError
		require.ErrorAs(t, err, &exists)
	})

	t.Run("too many arguments", func(t *testing.T) {
		t.Parallel()
		cmd := NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"a", "b"})
		require.Error(t, cmd.Execute())
	})
}

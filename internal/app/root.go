package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/andyballingall/cppfmt/internal/config"
	"github.com/andyballingall/cppfmt/internal/formatter"
	"github.com/andyballingall/cppfmt/internal/fs"
	"github.com/andyballingall/cppfmt/internal/sources"
)

// Version is the current version of cppfmt, set at build time.
var Version = "dev"

const InitCmdName = "init"

var LongDescription = `
cppfmt formats C and C++ sources in place with clang-format.
It collects source files beneath the given paths, skips anything ignored, finds
the single .clang-format file beneath the current directory and hands every
file to clang-format in one go.
`

// rootOptions holds the values bound to the root command's flags.
type rootOptions struct {
	debug           bool
	paths           pathListValue
	ignore          pathListValue
	exclude         pathListValue
	compileCommands pathValue
	styleFile       pathValue
	formatter       string
	jobs            int
	check           bool
	list            bool
	output          formatValue
	watch           bool
	noIgnoreFile    bool
}

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, logger *slog.Logger, ll *slog.LevelVar, stdout, stderr io.Writer,
	env fs.EnvProvider,
) *cobra.Command {
	opts := &rootOptions{jobs: 1, output: "text"}

	rootCmd := &cobra.Command{
		Use:           "cppfmt",
		Short:         "Format C and C++ sources with clang-format",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          LongDescription,
		Args:          cobra.NoArgs,
		Example: `
cppfmt
cppfmt -p src,include -i src/vendor
cppfmt --check -e "**/*.pb.h"
cppfmt --list -o json
`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.debug {
				ll.Set(slog.LevelDebug)
			}
			// Skip initialization for help, completion and init commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) || cmd.Name() == InitCmdName {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}
			lazy.SetInner(NewCLIManager(logger, stdout, stderr))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to determine working directory: %w", err)
			}
			settings, err := config.LoadSettings(wd)
			if err != nil {
				return err
			}
			if settings.Path != "" {
				logger.Debug("loaded settings", "settings", settings.Path)
			}

			req, err := buildRequest(cmd, opts, settings, env, wd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			switch {
			case opts.list:
				return lazy.List(ctx, req)
			case opts.watch:
				return lazy.Watch(ctx, req, nil)
			default:
				return lazy.Format(ctx, req)
			}
		},
	}

	f := rootCmd.Flags()
	f.VarP(&opts.paths, "path", "p", "comma-separated files and directories to format (default \".\")")
	f.VarP(&opts.ignore, "ignore", "i", "comma-separated files and directories to skip")
	f.VarP(&opts.exclude, "exclude", "e", "comma-separated glob patterns to skip while walking directories")
	f.Var(&opts.compileCommands, "compile-commands", "also format the files listed in a compile_commands.json")
	f.Var(&opts.styleFile, "style-file", "use this style file instead of searching for .clang-format")
	f.StringVar(&opts.formatter, "formatter", "", "formatter binary (default \"clang-format\")")
	f.IntVarP(&opts.jobs, "jobs", "j", 1, "number of formatter processes to run in parallel")
	f.BoolVar(&opts.check, "check", false, "report files needing formatting without changing them")
	f.BoolVarP(&opts.list, "list", "l", false, "list the files that would be formatted and exit")
	f.VarP(&opts.output, "output", "o", "listing format: text or json")
	f.BoolVarP(&opts.watch, "watch", "w", false, "keep formatting files as they change")
	f.BoolVar(&opts.noIgnoreFile, "no-ignore-file", false, "do not read "+sources.IgnoreFileName)
	rootCmd.MarkFlagsMutuallyExclusive("list", "watch")
	rootCmd.MarkFlagsMutuallyExclusive("list", "check")

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")

	// Subcommands
	rootCmd.AddCommand(NewInitCmd())

	return rootCmd
}

// buildRequest merges flags over the environment, the settings file and the defaults.
func buildRequest(cmd *cobra.Command, opts *rootOptions, s *config.Settings, env fs.EnvProvider,
	wd string,
) (Request, error) {
	flags := cmd.Flags()

	req := Request{
		WorkDir:         wd,
		Paths:           pick(flags.Changed("path"), opts.paths, s.Paths),
		Ignore:          pick(flags.Changed("ignore"), opts.ignore, s.Ignore),
		Exclude:         pick(flags.Changed("exclude"), opts.exclude, s.Exclude),
		Extensions:      s.Extensions,
		CompileCommands: string(opts.compileCommands),
		StyleFile:       string(opts.styleFile),
		Jobs:            opts.jobs,
		Check:           opts.check,
		NoIgnoreFile:    opts.noIgnoreFile,
		Output:          string(opts.output),
		Verbose:         opts.debug,
	}
	if len(req.Paths) == 0 {
		req.Paths = []string{"."}
	}

	switch {
	case flags.Changed("formatter"):
		req.Formatter = opts.formatter
	case env.Get(formatter.BinaryEnvVar) != "":
		req.Formatter = env.Get(formatter.BinaryEnvVar)
	case s.Formatter != "":
		req.Formatter = s.Formatter
	default:
		req.Formatter = formatter.DefaultBinary
	}

	if !flags.Changed("jobs") && s.Jobs > 0 {
		req.Jobs = s.Jobs
	}
	if req.Jobs < 1 {
		return Request{}, &InvalidJobsError{Jobs: req.Jobs}
	}

	return req, nil
}

func pick(changed bool, flagValue, settingsValue []string) []string {
	if changed {
		return flagValue
	}
	return settingsValue
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}

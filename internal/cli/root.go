package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/runcfg/internal/config"
	"github.com/wesleyorama2/runcfg/internal/log"
	"github.com/wesleyorama2/runcfg/internal/output"
)

var version = "0.1.0"

// exitError reports a failure whose details have already been printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// ExitCode returns the process exit code for an error returned by Execute.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	rootDir    string
	noColor    bool
	logLevel   string

	// lookup reads environment variables; tests replace it.
	lookup config.LookupFunc
}

// resolve returns the document for the current flags. Without flags or an
// injected environment it is the process-wide document from config.Get.
func (o *globalOptions) resolve() (*config.Document, error) {
	if o.configPath == "" && o.rootDir == "" && o.lookup == nil {
		return config.Get()
	}
	return config.Resolve(config.Options{
		Path:    o.configPath,
		RootDir: o.rootDir,
		Lookup:  o.lookup,
	})
}

func (o *globalOptions) formatter() *output.Formatter {
	return output.NewFormatter(o.noColor, runtime.NumCPU())
}

// fail prints err and returns an exitError so Execute stays quiet.
func (o *globalOptions) fail(w io.Writer, err error) error {
	fmt.Fprint(w, o.formatter().FormatError(err))
	return &exitError{code: 1}
}

// NewRootCmd builds the runcfg command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

func newRootCmd(lookup config.LookupFunc) *cobra.Command {
	opts := &globalOptions{lookup: lookup}

	rootCmd := &cobra.Command{
		Use:     "runcfg",
		Short:   "Resolve and validate test-runner configuration",
		Version: version,
		Long: `runcfg resolves the configuration document a test runner honors: test file
patterns, coverage collection and thresholds, worker concurrency, reporters,
setup hooks and import aliases. It layers an optional YAML or JSON file and
environment overrides over the built-in declaration and validates the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.noColor = !output.UseColor(opts.noColor, os.Stdout)
			log.Configure(log.Config{
				Level:   opts.logLevel,
				Output:  cmd.ErrOrStderr(),
				NoColor: opts.noColor,
			})
		},
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			_ = cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML or JSON config file layered over the defaults (env RUNCFG_CONFIG)")
	flags.StringVar(&opts.rootDir, "root-dir", "", "root directory substituted for <rootDir> (env RUNCFG_ROOT_DIR)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")

	rootCmd.AddCommand(
		newShowCmd(opts),
		newValidateCmd(opts),
		newGetCmd(opts),
		newSchemaCmd(),
		newExportCmd(opts),
		newWatchCmd(opts),
		newDiscoverCmd(opts),
		newCheckCoverageCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command. Errors not already reported by a command
// are printed to stderr.
func Execute() error {
	err := NewRootCmd().Execute()
	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

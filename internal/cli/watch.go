package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/runcfg/internal/config"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-resolve the configuration whenever the config file changes",
		Long: `Watch the file given by --config and re-resolve the configuration on every
change until interrupted. Each outcome is printed; an invalid file keeps the
last valid document in effect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath == "" {
				return errors.New("watch requires --config")
			}

			w, err := config.NewWatcher(config.Options{
				Path:    opts.configPath,
				RootDir: opts.rootDir,
				Lookup:  opts.lookup,
			}, debounce)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, w, opts, cmd)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", config.DefaultDebounce, "wait this long after the last change before reloading")
	return cmd
}

func runWatch(ctx context.Context, w *config.Watcher, opts *globalOptions, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	formatter := opts.formatter()

	results := make(chan config.Result)
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx, results) }()

	for r := range results {
		if r.Err != nil {
			fmt.Fprint(out, formatter.FormatError(r.Err))
			continue
		}
		fmt.Fprint(out, formatter.FormatWarnings(config.Warnings(r.Document)))
		fmt.Fprint(out, formatter.FormatValid(opts.configPath))
	}
	return <-errCh
}

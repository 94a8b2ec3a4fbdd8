package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/runcfg/internal/config"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Resolve the configuration and report every problem",
		Long: `Resolve the configuration and report every problem found. Exits with status
1 when the configuration is invalid. Non-fatal findings such as unknown
reporter names are printed as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			formatter := opts.formatter()

			doc, err := opts.resolve()
			if err != nil {
				return opts.fail(out, err)
			}

			fmt.Fprint(out, formatter.FormatWarnings(config.Warnings(doc)))
			source := opts.configPath
			if source == "" {
				source = "built-in defaults"
			}
			fmt.Fprint(out, formatter.FormatValid(source))
			return nil
		},
	}
}

package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/runcfg/internal/config"
	"github.com/wesleyorama2/runcfg/pkg/jsonpath"
)

func newGetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get PATH...",
		Short: "Print values of the resolved configuration by JSON path",
		Example: `  runcfg get '$.coverageThresholds.global.statements'
  runcfg get '$.coverageThresholds["./src/core/"]' '$.reporters[0]'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.resolve()
			if err != nil {
				return opts.fail(cmd.OutOrStdout(), err)
			}

			var buf bytes.Buffer
			if err := config.Encode(&buf, doc, config.FormatJSON); err != nil {
				return err
			}

			for _, path := range args {
				value, err := jsonpath.Extract(buf.String(), path)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
			}
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/runcfg/internal/output"
)

func newShowCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := output.ParseOutputFormat(format)
			if err != nil {
				return err
			}

			doc, err := opts.resolve()
			if err != nil {
				return opts.fail(cmd.OutOrStdout(), err)
			}

			text, err := output.GetFormatter(outputFormat, opts.noColor, runtime.NumCPU()).FormatDocument(doc)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/runcfg/internal/config"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var (
		outPath string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the resolved configuration to a file",
		Long: `Write the resolved configuration as JSON or YAML. The file is replaced
atomically. With -o - the document is written to stdout. The format defaults
to the output file's extension, or JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(outPath), ".")
				if format == "" {
					format = string(config.FormatJSON)
				}
			}
			f, err := config.ParseFormat(format)
			if err != nil {
				return err
			}

			doc, err := opts.resolve()
			if err != nil {
				return opts.fail(cmd.OutOrStdout(), err)
			}

			if outPath == "-" {
				return config.Encode(cmd.OutOrStdout(), doc, f)
			}
			return config.WriteFile(outPath, doc, f)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file, or - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/runcfg/internal/discover"
)

func newDiscoverCmd(opts *globalOptions) *cobra.Command {
	var count bool

	cmd := &cobra.Command{
		Use:   "discover [ROOT]",
		Short: "List the test files under the root directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.resolve()
			if err != nil {
				return opts.fail(cmd.OutOrStdout(), err)
			}

			root := doc.RootDir
			if len(args) == 1 {
				root = args[0]
			}
			m, err := doc.Matchers()
			if err != nil {
				return err
			}
			files, err := discover.TestFiles(cmd.Context(), root, m)
			if err != nil {
				return err
			}

			if count {
				fmt.Fprintln(cmd.OutOrStdout(), len(files))
				return nil
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&count, "count", false, "print only the number of test files")
	return cmd
}

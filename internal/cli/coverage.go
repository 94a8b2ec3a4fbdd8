package cli

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/runcfg/internal/config"
	"github.com/wesleyorama2/runcfg/internal/coverage"
	"github.com/wesleyorama2/runcfg/internal/output"
)

func newCheckCoverageCmd(opts *globalOptions) *cobra.Command {
	var (
		summaryPath string
		format      string
		listBelow   bool
	)

	cmd := &cobra.Command{
		Use:   "check-coverage",
		Short: "Enforce coverage thresholds against a json-summary report",
		Long: `Read the Istanbul json-summary report written by the json-summary reporter
and check every threshold scope. Files under a directory scope count only
toward that scope. Exits with status 1 when a threshold is not met or a
directory scope has no coverage data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := output.ParseOutputFormat(format)
			if err != nil {
				return err
			}

			doc, err := opts.resolve()
			if err != nil {
				return opts.fail(cmd.OutOrStdout(), err)
			}

			path := summaryPath
			if path == "" {
				path = defaultSummaryPath(doc)
			}
			summary, err := coverage.LoadSummary(path)
			if err != nil {
				return err
			}

			report := coverage.Check(doc, summary)
			text, err := output.GetFormatter(outputFormat, opts.noColor, runtime.NumCPU()).FormatReport(report)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, text)

			if listBelow && outputFormat == output.FormatText {
				global := doc.CoverageThresholds[config.GlobalScope]
				for _, f := range coverage.Uncovered(summary, global.Lines) {
					fmt.Fprintf(out, "  %6.2f%%  %s\n", f.Lines.Pct(), f.Path)
				}
			}

			if !report.Passed() {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&summaryPath, "summary", "s", "", "json-summary report (default <coverageDirectory>/coverage-summary.json)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	cmd.Flags().BoolVar(&listBelow, "list-files", false, "list files whose line coverage is below the global threshold")
	return cmd
}

func defaultSummaryPath(doc *config.Document) string {
	dir := doc.CoverageDirectory
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(doc.RootDir, dir)
	}
	return filepath.Join(dir, coverage.SummaryFile)
}

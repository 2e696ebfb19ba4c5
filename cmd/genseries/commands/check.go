package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"futurescli/internal/infrastructure"
	"futurescli/internal/quality"
)

var checkStrict bool

// checkCmd runs the data quality scans on their own, without building
// anything.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run data quality checks over the input files",
	Long: `check scans the contract reference and daily price files for missing
values, duplicate rows, inconsistent types, negative prices, and
duplicate (contract, day) keys, and summarizes each numeric column's
distribution. Findings print as a table and are saved as text reports
under the reports directory.

Example:
  genseries check --strict`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "exit non-zero when any check finds issues")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, paths, logger, err := bootstrap(nil)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithRunID(cmd.Context())
	logger = infrastructure.LoggerWithContext(ctx)

	inputs := []struct {
		path string
		name string
		opts quality.Options
	}{
		{paths.ReferenceCSV, "future_ref", quality.ReferenceOptions()},
		{paths.PriceCSV, "future_daily", quality.PriceOptions()},
	}

	issues := 0
	for _, in := range inputs {
		table, err := quality.LoadTable(in.path, in.name)
		if err != nil {
			return err
		}

		report := quality.NewChecker(table, logger).Run(ctx, in.opts)

		fmt.Printf("\n=== %s ===\n", in.name)
		report.RenderTable(os.Stdout)

		reportPath := paths.GetReportPath(fmt.Sprintf("%s_check.txt", in.name))
		if err := report.SaveText(reportPath); err != nil {
			return err
		}
		fmt.Printf("Report saved to %s\n", reportPath)

		issues += report.Issues()
	}

	if issues > 0 {
		logger.WarnContext(ctx, "quality checks finished with findings", "issues", issues)
		if checkStrict {
			return fmt.Errorf("quality checks found %d issues", issues)
		}
	} else {
		logger.InfoContext(ctx, "quality checks finished clean")
	}
	return nil
}

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"futurescli/internal/config"
	"futurescli/internal/exporter"
	"futurescli/internal/infrastructure"
	"futurescli/internal/quality"
	"futurescli/internal/series"
	"futurescli/internal/universe"
)

var (
	buildFrom       string
	buildTo         string
	buildOutput     string
	buildFamilies   []string
	buildSkipChecks bool
)

// buildCmd runs the whole pipeline: quality checks over the inputs,
// universe load, ranking/selection/adjustment per family, and export.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build and export the generic series for every configured family",
	Long: `build loads the contract reference and daily price files, runs the
data quality checks, constructs each configured family's generic
series, and writes the assignment, rolling path, adjusted series, and
diagnostics tables (plus an Excel workbook per family) to the output
directory.

Example:
  genseries build --from 20210104 --to 20211231 --family IF --family P`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildFrom, "from", "", "first trading day (YYYYMMDD or YYYY-MM-DD)")
	buildCmd.Flags().StringVar(&buildTo, "to", "", "last trading day (YYYYMMDD or YYYY-MM-DD)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output directory for series files")
	buildCmd.Flags().StringArrayVar(&buildFamilies, "family", nil, "family code to build (repeatable, default all configured)")
	buildCmd.Flags().BoolVar(&buildSkipChecks, "skip-checks", false, "skip the pre-build data quality checks")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, paths, logger, err := bootstrap(func(cfg *config.Config) {
		if buildFrom != "" {
			cfg.Build.From = buildFrom
		}
		if buildTo != "" {
			cfg.Build.To = buildTo
		}
		if buildOutput != "" {
			cfg.Output.Dir = buildOutput
		}
	})
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithRunID(cmd.Context())
	logger = infrastructure.LoggerWithContext(ctx)

	specs, err := selectSpecs(cfg, buildFamilies)
	if err != nil {
		return err
	}
	from, to, err := cfg.Build.Window()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting series build run",
		"families", len(specs),
		"from", cfg.Build.From,
		"to", cfg.Build.To,
		"output", paths.SeriesDir,
	)

	if !buildSkipChecks {
		if err := preBuildChecks(ctx, paths, logger); err != nil {
			return err
		}
	}

	provider := universe.NewCSVProvider(paths.ReferenceCSV, paths.PriceCSV, logger)
	records, err := provider.Records(ctx, "", from, to)
	if err != nil {
		return fmt.Errorf("load universe: %w", err)
	}

	buildCtx, cancel := context.WithTimeout(ctx, cfg.Build.Timeout)
	defer cancel()

	results, err := series.Run(buildCtx, specs, records, logger)
	if err != nil {
		return err
	}

	seriesExporter := exporter.NewSeriesExporter(paths, infrastructure.GetRunID(ctx))
	workbook := exporter.NewWorkbookExporter()
	for _, result := range results {
		if err := exportFamily(seriesExporter, workbook, cfg, paths, result); err != nil {
			return err
		}
		logger.InfoContext(ctx, "family exported",
			"family", result.Family,
			"assignments", len(result.Assignments),
			"rolls", len(result.Rolls),
			"points", len(result.Points),
			"diagnostics", len(result.Diagnostics),
		)
	}

	renderRollSummary(os.Stdout, results)
	fmt.Printf("\nSeries written to %s\n", paths.SeriesDir)
	return nil
}

// selectSpecs resolves the configured families, restricted to the
// --family flags when given.
func selectSpecs(cfg *config.Config, codes []string) ([]series.FamilySpec, error) {
	specs := cfg.FamilySpecs()
	if len(codes) == 0 {
		return specs, nil
	}

	byCode := make(map[string]series.FamilySpec, len(specs))
	for _, spec := range specs {
		byCode[spec.Family] = spec
	}

	selected := make([]series.FamilySpec, 0, len(codes))
	for _, code := range codes {
		spec, ok := byCode[code]
		if !ok {
			return nil, fmt.Errorf("family %q is not configured", code)
		}
		selected = append(selected, spec)
	}
	return selected, nil
}

// preBuildChecks runs the quality scans over both input files and
// saves their reports. Findings are logged, not fatal: series built
// from questionable data are still audited via the reports.
func preBuildChecks(ctx context.Context, paths *config.Paths, logger *slog.Logger) error {
	inputs := []struct {
		path string
		name string
		opts quality.Options
	}{
		{paths.ReferenceCSV, "future_ref", quality.ReferenceOptions()},
		{paths.PriceCSV, "future_daily", quality.PriceOptions()},
	}

	for _, in := range inputs {
		table, err := quality.LoadTable(in.path, in.name)
		if err != nil {
			return fmt.Errorf("quality check %s: %w", in.name, err)
		}
		report := quality.NewChecker(table, logger).Run(ctx, in.opts)

		reportPath := paths.GetReportPath(fmt.Sprintf("%s_check.txt", in.name))
		if err := report.SaveText(reportPath); err != nil {
			return fmt.Errorf("quality check %s: %w", in.name, err)
		}
		if !report.Clean() {
			logger.WarnContext(ctx, "data quality issues found",
				"dataset", in.name,
				"issues", report.Issues(),
				"report", reportPath,
			)
		}
	}
	return nil
}

// exportFamily writes every table of one family's result.
func exportFamily(se *exporter.SeriesExporter, wb *exporter.WorkbookExporter, cfg *config.Config, paths *config.Paths, result *series.Result) error {
	if err := se.ExportAssignments(result.Family, result.Assignments); err != nil {
		return err
	}
	if err := se.ExportRolls(result.Family, result.Rolls); err != nil {
		return err
	}
	if err := se.ExportPoints(result.Family, result.Points); err != nil {
		return err
	}
	if err := se.ExportDiagnostics(result.Family, result.Diagnostics); err != nil {
		return err
	}
	if cfg.Output.Workbook && len(result.Points) > 0 {
		if err := wb.Export(result.Family, result.Points, paths.GetWorkbookPath(result.Family)); err != nil {
			return err
		}
	}
	return nil
}

// renderRollSummary prints the realized rolling path of every family,
// the console counterpart of the rolling path CSV.
func renderRollSummary(w io.Writer, results []*series.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Family", "Slot", "Day", "From", "To", "Price From", "Price To", "Forced"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetRowLine(false)

	rows := 0
	for _, result := range results {
		for _, ev := range result.Rolls {
			if ev.Initial() {
				continue
			}
			table.Append([]string{
				ev.Family,
				ev.Slot,
				ev.Day.Format("2006-01-02"),
				ev.FromID,
				ev.ToID,
				formatPrice(ev.PriceFrom),
				formatPrice(ev.PriceTo),
				formatFlag(ev.Forced),
			})
			rows++
		}
	}

	if rows == 0 {
		fmt.Fprintln(w, "No rollovers in the built window.")
		return
	}
	fmt.Fprintln(w, "\nRolling path:")
	table.Render()
}

func formatPrice(f float64) string {
	if f <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", f)
}

func formatFlag(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package exporter

import (
	"fmt"
	"sort"

	"futurescli/internal/config"
	"futurescli/pkg/contracts/domain"
)

// SeriesExporter writes the tables produced by a series build: slot
// assignments, the rolling path, adjusted price points, and the
// diagnostics that accumulated along the way. One file per family and
// table, all under the series directory.
type SeriesExporter struct {
	csvWriter *CSVWriter
	runID     string
}

// NewSeriesExporter creates a new series table exporter
func NewSeriesExporter(paths *config.Paths, runID string) *SeriesExporter {
	return &SeriesExporter{
		csvWriter: NewCSVWriter(paths),
		runID:     runID,
	}
}

// ExportAssignments writes which contract backed each generic slot on
// each trading day.
func (e *SeriesExporter) ExportAssignments(family string, assignments []domain.SlotAssignment) error {
	sorted := make([]domain.SlotAssignment, len(assignments))
	copy(sorted, assignments)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Day.Equal(sorted[j].Day) {
			return sorted[i].Day.Before(sorted[j].Day)
		}
		return sorted[i].Slot < sorted[j].Slot
	})

	records := make([][]string, 0, len(sorted))
	for _, a := range sorted {
		records = append(records, []string{
			a.Family,
			a.Slot,
			formatDay(a.Day),
			a.ContractID,
			formatInt(int64(a.Rank)),
		})
	}

	filename := fmt.Sprintf("%s_assignments.csv", family)
	headers := []string{"family", "slot", "trading_day", "contract_id", "rank"}
	if err := e.csvWriter.WriteSimpleCSV(filename, headers, records); err != nil {
		return fmt.Errorf("failed to write assignments for %s: %w", family, err)
	}
	return nil
}

// ExportRolls writes the rolling path: one row per day a slot changed
// its backing contract, including the first assignment that opened each
// slot.
func (e *SeriesExporter) ExportRolls(family string, rolls []domain.RollEvent) error {
	sorted := make([]domain.RollEvent, len(rolls))
	copy(sorted, rolls)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Day.Equal(sorted[j].Day) {
			return sorted[i].Day.Before(sorted[j].Day)
		}
		return sorted[i].Slot < sorted[j].Slot
	})

	records := make([][]string, 0, len(sorted))
	for _, ev := range sorted {
		records = append(records, []string{
			ev.Family,
			ev.Slot,
			formatDay(ev.Day),
			ev.FromID,
			ev.ToID,
			formatOptionalClose(ev.PriceFrom),
			formatOptionalClose(ev.PriceTo),
			formatBool(ev.Forced),
		})
	}

	filename := fmt.Sprintf("%s_rolling_path.csv", family)
	headers := []string{"family", "slot", "trading_day", "from_contract", "to_contract", "price_from", "price_to", "forced"}
	if err := e.csvWriter.WriteSimpleCSV(filename, headers, records); err != nil {
		return fmt.Errorf("failed to write rolling path for %s: %w", family, err)
	}
	return nil
}

// ExportPoints writes the back-adjusted series. Closes round to one
// decimal here at the boundary; factors export at six decimals so a
// reader can reproduce the splice.
func (e *SeriesExporter) ExportPoints(family string, points []domain.AdjustedPricePoint) error {
	sorted := make([]domain.AdjustedPricePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Slot != sorted[j].Slot {
			return sorted[i].Slot < sorted[j].Slot
		}
		return sorted[i].Day.Before(sorted[j].Day)
	})

	records := make([][]string, 0, len(sorted))
	for _, pt := range sorted {
		records = append(records, []string{
			pt.Family,
			pt.Slot,
			formatDay(pt.Day),
			pt.ContractID,
			formatClose(pt.RawClose),
			formatFactor(pt.Factor),
			formatClose(pt.AdjustedClose),
			formatBool(pt.Unadjusted),
		})
	}

	filename := fmt.Sprintf("%s_series.csv", family)
	headers := []string{"family", "slot", "trading_day", "contract_id", "raw_close", "adjustment_factor", "adjusted_close", "unadjusted"}
	if err := e.csvWriter.WriteSimpleCSV(filename, headers, records); err != nil {
		return fmt.Errorf("failed to write adjusted series for %s: %w", family, err)
	}
	return nil
}

// ExportDiagnostics writes the anomalies recorded during the build.
// Families with a clean run still get a file, so the absence of
// findings is itself on record. Each row carries the exporter's run id,
// tying the file to the log stream of the run that produced it.
func (e *SeriesExporter) ExportDiagnostics(family string, diags []domain.Diagnostic) error {
	records := make([][]string, 0, len(diags))
	for _, d := range diags {
		records = append(records, []string{
			string(d.Kind),
			d.Family,
			d.Slot,
			formatDay(d.Day),
			d.ContractID,
			d.Detail,
			e.runID,
		})
	}

	filename := fmt.Sprintf("%s_diagnostics.csv", family)
	headers := []string{"kind", "family", "slot", "trading_day", "contract_id", "detail", "run_id"}
	if err := e.csvWriter.WriteSimpleCSV(filename, headers, records); err != nil {
		return fmt.Errorf("failed to write diagnostics for %s: %w", family, err)
	}
	return nil
}

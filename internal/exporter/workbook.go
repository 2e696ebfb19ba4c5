package exporter

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"futurescli/pkg/contracts/domain"
)

// WorkbookExporter renders one family's adjusted series as an Excel
// workbook: a sheet per generic slot holding the day-by-day table plus
// a line chart of raw against adjusted closes, so the effect of each
// roll is visible at a glance.
type WorkbookExporter struct{}

// NewWorkbookExporter creates a new workbook exporter
func NewWorkbookExporter() *WorkbookExporter {
	return &WorkbookExporter{}
}

// workbookHeaders are the columns of each slot sheet.
var workbookHeaders = []string{"trading_day", "contract_id", "raw_close", "adjusted_close"}

// Export writes the family workbook to the given path.
func (w *WorkbookExporter) Export(family string, points []domain.AdjustedPricePoint, path string) error {
	if len(points) == 0 {
		return fmt.Errorf("no adjusted points for family %s", family)
	}

	bySlot := make(map[string][]domain.AdjustedPricePoint)
	for _, pt := range points {
		bySlot[pt.Slot] = append(bySlot[pt.Slot], pt)
	}
	slots := make([]string, 0, len(bySlot))
	for slot := range bySlot {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	f := excelize.NewFile()
	defer f.Close()

	for i, slot := range slots {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", slot); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", slot, err)
			}
		} else {
			if _, err := f.NewSheet(slot); err != nil {
				return fmt.Errorf("failed to add sheet %s: %w", slot, err)
			}
		}
		if err := w.writeSlotSheet(f, slot, bySlot[slot]); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create workbook directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook for %s: %w", family, err)
	}
	return nil
}

// writeSlotSheet fills one slot's sheet with its series and chart.
func (w *WorkbookExporter) writeSlotSheet(f *excelize.File, slot string, points []domain.AdjustedPricePoint) error {
	sorted := make([]domain.AdjustedPricePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day.Before(sorted[j].Day) })

	for col, header := range workbookHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(slot, cell, header); err != nil {
			return fmt.Errorf("failed to write header on %s: %w", slot, err)
		}
	}

	for i, pt := range sorted {
		row := i + 2
		values := []interface{}{
			formatDay(pt.Day),
			pt.ContractID,
			roundClose(pt.RawClose),
			roundClose(pt.AdjustedClose),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(slot, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d on %s: %w", row, slot, err)
			}
		}
	}

	if err := f.SetColWidth(slot, "A", "B", 14); err != nil {
		return fmt.Errorf("failed to size columns on %s: %w", slot, err)
	}

	lastRow := len(sorted) + 1
	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$C$1", slot),
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", slot, lastRow),
				Values:     fmt.Sprintf("'%s'!$C$2:$C$%d", slot, lastRow),
			},
			{
				Name:       fmt.Sprintf("'%s'!$D$1", slot),
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", slot, lastRow),
				Values:     fmt.Sprintf("'%s'!$D$2:$D$%d", slot, lastRow),
			},
		},
		Title:  []excelize.RichTextRun{{Text: fmt.Sprintf("%s raw vs adjusted close", slot)}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "trading day"}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "close"}}},
		Dimension: excelize.ChartDimension{
			Width:  760,
			Height: 400,
		},
	}
	if err := f.AddChart(slot, "F2", chart); err != nil {
		return fmt.Errorf("failed to add chart on %s: %w", slot, err)
	}
	return nil
}

// roundClose applies the one-decimal output precision to a price cell.
func roundClose(f float64) float64 {
	return math.Round(f*10) / 10
}

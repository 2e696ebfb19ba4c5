// Package exporter persists the artifacts of a series build.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// SeriesExporter: Writes the four per-family tables of a build: slot
// assignments, the rolling path, the back-adjusted series, and
// diagnostics.
//
// WorkbookExporter: Renders a family's series as an Excel workbook,
// one sheet per generic slot with a line chart of raw against adjusted
// closes.
//
// Prices round to one decimal place here at the output boundary;
// everything upstream carries full precision.
//
// Example usage:
//
//	seriesExporter := exporter.NewSeriesExporter(paths, runID)
//	if err := seriesExporter.ExportRolls("IF", result.Rolls); err != nil {
//		return err
//	}
//
//	workbook := exporter.NewWorkbookExporter()
//	err := workbook.Export("IF", result.Points, paths.GetWorkbookPath("IF"))
package exporter

// Package quality runs column-oriented data checks over the raw input
// files before a series build: missing values, duplicate rows, type
// inference, negative values, distribution summaries, and duplicate
// keys. The checks describe the data; they never mutate it.
package quality

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
)

// Table is a dataset loaded for checking: raw string cells under named
// columns.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// LoadTable reads a CSV file into a Table. Ragged rows fail the load,
// since none of the checks can say anything trustworthy about a file
// whose lines disagree on shape.
func LoadTable(path, name string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read %s: file has no header row", path)
	}

	return &Table{Name: name, Columns: rows[0], Rows: rows[1:]}, nil
}

// column returns the values under the named column.
func (t *Table) column(name string) ([]string, bool) {
	for i, col := range t.Columns {
		if col == name {
			values := make([]string, len(t.Rows))
			for j, row := range t.Rows {
				values[j] = row[i]
			}
			return values, true
		}
	}
	return nil, false
}

// Options selects which checks run beyond the structural core.
type Options struct {
	// NegativeColumns are columns whose values must not be negative.
	NegativeColumns []string
	// KeyColumns form a composite key expected to be unique per row.
	KeyColumns []string
	// SkipOutliers drops the distribution summary, useful for
	// reference data where it carries no signal.
	SkipOutliers bool
}

// ReferenceOptions checks a contract reference file: structure only.
func ReferenceOptions() Options {
	return Options{SkipOutliers: true}
}

// PriceOptions checks a daily market data file.
func PriceOptions() Options {
	return Options{
		NegativeColumns: []string{"pre_close", "pre_settle", "open", "high", "low", "close", "settle", "vol", "amount", "oi"},
		KeyColumns:      []string{"ts_code", "trade_date"},
	}
}

// Checker runs the quality checks over one table.
type Checker struct {
	table  *Table
	logger *slog.Logger
}

// NewChecker creates a checker for the given table.
func NewChecker(table *Table, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{table: table, logger: logger}
}

// Run executes the configured checks and collects their findings.
func (c *Checker) Run(ctx context.Context, opts Options) *Report {
	start := time.Now()
	c.logger.InfoContext(ctx, "starting data quality checks",
		"dataset", c.table.Name,
		"rows", len(c.table.Rows),
		"columns", len(c.table.Columns),
	)

	report := &Report{Dataset: c.table.Name}
	report.add(c.checkMissing())
	report.add(c.checkDuplicates())
	report.add(c.checkTypes())
	if !opts.SkipOutliers {
		report.add(c.checkOutliers())
	}
	if len(opts.NegativeColumns) > 0 {
		report.add(c.checkNegatives(opts.NegativeColumns))
	}
	if len(opts.KeyColumns) > 0 {
		report.add(c.checkDuplicateKeys(opts.KeyColumns))
	}

	c.logger.InfoContext(ctx, "data quality checks completed",
		"dataset", c.table.Name,
		"issues", report.Issues(),
		"duration", time.Since(start),
	)
	return report
}

// checkMissing counts empty cells per column.
func (c *Checker) checkMissing() Section {
	s := Section{Title: "Missing values"}
	for i, col := range c.table.Columns {
		n := 0
		for _, row := range c.table.Rows {
			if strings.TrimSpace(row[i]) == "" {
				n++
			}
		}
		s.Rows = append(s.Rows, [2]string{col, strconv.Itoa(n)})
		s.IssueCount += n
	}
	return s
}

// checkDuplicates counts rows that repeat an earlier row exactly.
func (c *Checker) checkDuplicates() Section {
	seen := make(map[string]bool, len(c.table.Rows))
	dupes := 0
	for _, row := range c.table.Rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			dupes++
		}
		seen[key] = true
	}
	return Section{
		Title:      "Duplicate rows",
		Rows:       [][2]string{{"total", strconv.Itoa(dupes)}},
		IssueCount: dupes,
	}
}

// checkTypes infers each column's value type from its cells.
func (c *Checker) checkTypes() Section {
	s := Section{Title: "Data types"}
	for i, col := range c.table.Columns {
		s.Rows = append(s.Rows, [2]string{col, c.inferType(i)})
	}
	return s
}

func (c *Checker) inferType(col int) string {
	allInt, allFloat, allDate := true, true, true
	seen := false
	for _, row := range c.table.Rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		seen = true
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			allFloat = false
		}
		if _, err := time.Parse("2006-01-02", v); err != nil {
			allDate = false
		}
	}

	switch {
	case !seen:
		return "empty"
	case allInt:
		return "int"
	case allFloat:
		return "float"
	case allDate:
		return "date"
	default:
		return "text"
	}
}

// checkOutliers summarizes the distribution of every numeric column.
func (c *Checker) checkOutliers() Section {
	s := Section{Title: "Outliers"}
	for i, col := range c.table.Columns {
		data := c.numericColumn(i)
		if len(data) == 0 {
			continue
		}
		summary, err := describe(data)
		if err != nil {
			continue
		}
		s.Rows = append(s.Rows, [2]string{col, summary})
	}
	return s
}

func (c *Checker) numericColumn(col int) []float64 {
	var data []float64
	for _, row := range c.table.Rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		data = append(data, f)
	}
	return data
}

// describe renders an eight-number distribution summary.
func describe(data []float64) (string, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return "", err
	}
	sd, err := stats.StandardDeviation(data)
	if err != nil {
		return "", err
	}
	min, err := stats.Min(data)
	if err != nil {
		return "", err
	}
	q1, err := stats.Percentile(data, 25)
	if err != nil {
		q1 = min
	}
	med, err := stats.Median(data)
	if err != nil {
		return "", err
	}
	q3, err := stats.Percentile(data, 75)
	if err != nil {
		q3 = med
	}
	max, err := stats.Max(data)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("count=%d mean=%.2f std=%.2f min=%.2f 25%%=%.2f 50%%=%.2f 75%%=%.2f max=%.2f",
		len(data), mean, sd, min, q1, med, q3, max), nil
}

// checkNegatives counts negative values in the given columns.
func (c *Checker) checkNegatives(columns []string) Section {
	s := Section{Title: "Negative values"}
	for _, col := range columns {
		values, ok := c.table.column(col)
		if !ok {
			s.Rows = append(s.Rows, [2]string{col, "column not present"})
			s.IssueCount++
			continue
		}
		n := 0
		for _, v := range values {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err == nil && f < 0 {
				n++
			}
		}
		s.Rows = append(s.Rows, [2]string{col, strconv.Itoa(n)})
		s.IssueCount += n
	}
	return s
}

// checkDuplicateKeys counts rows whose composite key repeats.
func (c *Checker) checkDuplicateKeys(columns []string) Section {
	title := fmt.Sprintf("Duplicate keys (%s)", strings.Join(columns, ", "))

	indexes := make([]int, 0, len(columns))
	for _, col := range columns {
		found := false
		for i, name := range c.table.Columns {
			if name == col {
				indexes = append(indexes, i)
				found = true
				break
			}
		}
		if !found {
			return Section{
				Title:      title,
				Rows:       [][2]string{{col, "column not present"}},
				IssueCount: 1,
			}
		}
	}

	seen := make(map[string]bool, len(c.table.Rows))
	dupes := 0
	for _, row := range c.table.Rows {
		parts := make([]string, len(indexes))
		for j, idx := range indexes {
			parts[j] = row[idx]
		}
		key := strings.Join(parts, "\x1f")
		if seen[key] {
			dupes++
		}
		seen[key] = true
	}

	return Section{
		Title:      title,
		Rows:       [][2]string{{"total", strconv.Itoa(dupes)}},
		IssueCount: dupes,
	}
}

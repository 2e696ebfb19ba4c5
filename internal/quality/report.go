package quality

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
)

// Section is one check's findings: labeled values plus how many of
// them count as actual problems.
type Section struct {
	Title      string
	Rows       [][2]string
	IssueCount int
}

// Report collects every section produced by a check run.
type Report struct {
	Dataset  string
	Sections []Section
}

func (r *Report) add(s Section) {
	r.Sections = append(r.Sections, s)
}

// Issues returns the total problem count across sections.
func (r *Report) Issues() int {
	total := 0
	for _, s := range r.Sections {
		total += s.IssueCount
	}
	return total
}

// Clean reports whether no check found a problem. Informational
// sections (types, distribution summaries) never make a report dirty.
func (r *Report) Clean() bool {
	return r.Issues() == 0
}

// WriteText writes the report in a flat key/value layout, one block
// per section.
func (r *Report) WriteText(w io.Writer) error {
	for _, s := range r.Sections {
		if _, err := fmt.Fprintf(w, "%s:\n", s.Title); err != nil {
			return err
		}
		for _, row := range s.Rows {
			if _, err := fmt.Fprintf(w, "%s: %s\n", row[0], row[1]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// SaveText writes the text report to a file, creating parent
// directories as needed.
func (r *Report) SaveText(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := r.WriteText(f); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderTable prints the findings as a console table.
func (r *Report) RenderTable(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Check", "Item", "Result"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoMergeCells(true)
	table.SetRowLine(false)

	for _, s := range r.Sections {
		for _, row := range s.Rows {
			table.Append([]string{s.Title, row[0], row[1]})
		}
	}
	table.Render()
}

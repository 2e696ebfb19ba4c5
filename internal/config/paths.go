package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the locations the toolchain reads and writes.
// This is the single source of truth for file paths in the application.
type Paths struct {
	BaseDir    string
	DataDir    string
	SeriesDir  string
	ReportsDir string
	LogsDir    string

	// Well-known input files
	ReferenceCSV string
	PriceCSV     string
}

// GetPaths returns the application paths anchored at the current
// working directory. The tool operates on the data tree it is invoked
// in, so a relocated data set only needs a different invocation
// directory.
func GetPaths() (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return NewPaths(wd), nil
}

// NewPaths returns the standard layout anchored at the given base
// directory.
//
// Directory structure:
//
//	base/
//	  ├── data/
//	  │   ├── future_ref.csv     (contract reference input)
//	  │   ├── future_daily.csv   (daily price input)
//	  │   ├── series/            (generated series CSVs and workbooks)
//	  │   └── reports/           (data quality reports)
//	  └── logs/                  (application logs)
func NewPaths(base string) *Paths {
	dataDir := filepath.Join(base, "data")

	return &Paths{
		BaseDir:    base,
		DataDir:    dataDir,
		SeriesDir:  filepath.Join(dataDir, "series"),
		ReportsDir: filepath.Join(dataDir, "reports"),
		LogsDir:    filepath.Join(base, "logs"),

		ReferenceCSV: filepath.Join(dataDir, "future_ref.csv"),
		PriceCSV:     filepath.Join(dataDir, "future_daily.csv"),
	}
}

// PathsFor returns the working-directory layout with the configured
// input files and output directory applied on top of the defaults.
func PathsFor(cfg *Config) (*Paths, error) {
	p, err := GetPaths()
	if err != nil {
		return nil, err
	}
	p.ReferenceCSV = p.Resolve(cfg.Data.ReferenceCSV)
	p.PriceCSV = p.Resolve(cfg.Data.PriceCSV)
	p.SeriesDir = p.Resolve(cfg.Output.Dir)
	return p, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.SeriesDir,
		p.ReportsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// Resolve returns an absolute location for a configured path, joining
// relative paths against the base directory.
func (p *Paths) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.BaseDir, path)
}

// GetSeriesPath returns the path for a generated series file
func (p *Paths) GetSeriesPath(filename string) string {
	return filepath.Join(p.SeriesDir, filename)
}

// GetReportPath returns the path for a data quality report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetWorkbookPath returns the path for a family's Excel workbook
// (e.g. IF_series.xlsx)
func (p *Paths) GetWorkbookPath(family string) string {
	return filepath.Join(p.SeriesDir, fmt.Sprintf("%s_series.xlsx", family))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved layout for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("series", p.SeriesDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("inputs",
			slog.String("reference_csv", p.ReferenceCSV),
			slog.String("price_csv", p.PriceCSV),
		))
}

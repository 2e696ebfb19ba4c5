package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	paths := NewPaths(filepath.Join("/srv", "futures"))

	assert.Equal(t, filepath.Join("/srv", "futures"), paths.BaseDir)
	assert.Equal(t, filepath.Join("/srv", "futures", "data"), paths.DataDir)
	assert.Equal(t, filepath.Join("/srv", "futures", "data", "series"), paths.SeriesDir)
	assert.Equal(t, filepath.Join("/srv", "futures", "data", "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join("/srv", "futures", "logs"), paths.LogsDir)
	assert.Equal(t, filepath.Join("/srv", "futures", "data", "future_ref.csv"), paths.ReferenceCSV)
	assert.Equal(t, filepath.Join("/srv", "futures", "data", "future_daily.csv"), paths.PriceCSV)
}

func TestGetPaths(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	paths, err := GetPaths()
	require.NoError(t, err)
	assert.Equal(t, wd, paths.BaseDir)
}

func TestEnsureDirectories(t *testing.T) {
	paths := NewPaths(t.TempDir())

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.SeriesDir, paths.ReportsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err, "directory %s should exist", dir)
		assert.True(t, info.IsDir())
	}

	// Creating them twice is harmless
	require.NoError(t, paths.EnsureDirectories())
}

func TestPathsFor(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	cfg := Default()
	cfg.Data.ReferenceCSV = filepath.Join("inputs", "ref.csv")
	cfg.Data.PriceCSV = filepath.Join("/feeds", "daily.csv")
	cfg.Output.Dir = "out"

	paths, err := PathsFor(cfg)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(wd, "inputs", "ref.csv"), paths.ReferenceCSV)
	assert.Equal(t, filepath.Join("/feeds", "daily.csv"), paths.PriceCSV)
	assert.Equal(t, filepath.Join(wd, "out"), paths.SeriesDir)
	assert.Equal(t, filepath.Join(wd, "out", "P_series.xlsx"), paths.GetWorkbookPath("P"))

	// Untouched locations keep the standard layout.
	assert.Equal(t, filepath.Join(wd, "data", "reports"), paths.ReportsDir)
}

func TestResolve(t *testing.T) {
	paths := NewPaths(filepath.Join("/srv", "futures"))

	abs := filepath.Join("/etc", "futures", "ref.csv")
	assert.Equal(t, abs, paths.Resolve(abs))
	assert.Equal(t, filepath.Join("/srv", "futures", "inputs", "ref.csv"),
		paths.Resolve(filepath.Join("inputs", "ref.csv")))
}

func TestPathHelpers(t *testing.T) {
	paths := NewPaths("/base")

	assert.Equal(t, filepath.Join("/base", "data", "series", "IF_rolls.csv"),
		paths.GetSeriesPath("IF_rolls.csv"))
	assert.Equal(t, filepath.Join("/base", "data", "reports", "future_daily_check.txt"),
		paths.GetReportPath("future_daily_check.txt"))
	assert.Equal(t, filepath.Join("/base", "logs", "genseries.log"),
		paths.GetLogPath("genseries.log"))
	assert.Equal(t, filepath.Join("/base", "data", "series", "IF_series.xlsx"),
		paths.GetWorkbookPath("IF"))
}

func TestFileExists(t *testing.T) {
	tempDir := t.TempDir()
	existing := filepath.Join(tempDir, "here.txt")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0644))

	assert.True(t, FileExists(existing))
	assert.False(t, FileExists(filepath.Join(tempDir, "missing.txt")))
}

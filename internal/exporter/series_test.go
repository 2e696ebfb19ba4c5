package exporter

import (
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futurescli/internal/config"
	"futurescli/pkg/contracts/domain"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// readExport parses a written CSV back into rows, stripping the BOM.
func readExport(t *testing.T, paths *config.Paths, filename string) [][]string {
	t.Helper()
	data, err := os.ReadFile(paths.GetSeriesPath(filename))
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xEF\xBB\xBF"))).ReadAll()
	require.NoError(t, err)
	return rows
}

func setupSeriesExporter(t *testing.T) (*SeriesExporter, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(t.TempDir())
	return NewSeriesExporter(paths, "run-2f6c"), paths
}

func TestSeriesExporter_ExportAssignments(t *testing.T) {
	exp, paths := setupSeriesExporter(t)

	// Deliberately out of order: the export sorts by day then slot.
	assignments := []domain.SlotAssignment{
		{Family: "IF", Slot: "IFc2", Day: day("2021-01-14"), ContractID: "IF2102", Rank: 2},
		{Family: "IF", Slot: "IFc1", Day: day("2021-01-13"), ContractID: "IF2101", Rank: 1},
		{Family: "IF", Slot: "IFc1", Day: day("2021-01-14"), ContractID: "IF2101", Rank: 1},
	}

	require.NoError(t, exp.ExportAssignments("IF", assignments))

	rows := readExport(t, paths, "IF_assignments.csv")
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"family", "slot", "trading_day", "contract_id", "rank"}, rows[0])
	assert.Equal(t, []string{"IF", "IFc1", "2021-01-13", "IF2101", "1"}, rows[1])
	assert.Equal(t, []string{"IF", "IFc1", "2021-01-14", "IF2101", "1"}, rows[2])
	assert.Equal(t, []string{"IF", "IFc2", "2021-01-14", "IF2102", "2"}, rows[3])
}

func TestSeriesExporter_ExportRolls(t *testing.T) {
	exp, paths := setupSeriesExporter(t)

	rolls := []domain.RollEvent{
		{Family: "P", Slot: "Pv1", Day: day("2021-01-13"), ToID: "P2101", PriceTo: 7000},
		{Family: "P", Slot: "Pv1", Day: day("2021-01-14"), FromID: "P2101", ToID: "P2102", PriceFrom: 7010, PriceTo: 6980},
		{Family: "P", Slot: "Pv1", Day: day("2021-01-20"), FromID: "P2102", ToID: "P2103", PriceFrom: 7100, Forced: true},
	}

	require.NoError(t, exp.ExportRolls("P", rolls))

	rows := readExport(t, paths, "P_rolling_path.csv")
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"family", "slot", "trading_day", "from_contract", "to_contract", "price_from", "price_to", "forced"}, rows[0])

	// The opening assignment has no outgoing leg: empty from fields.
	assert.Equal(t, []string{"P", "Pv1", "2021-01-13", "", "P2101", "", "7000.0", "false"}, rows[1])
	assert.Equal(t, []string{"P", "Pv1", "2021-01-14", "P2101", "P2102", "7010.0", "6980.0", "false"}, rows[2])
	// A roll leg without a usable close exports empty, not 0.0.
	assert.Equal(t, []string{"P", "Pv1", "2021-01-20", "P2102", "P2103", "7100.0", "", "true"}, rows[3])
}

func TestSeriesExporter_ExportPoints(t *testing.T) {
	exp, paths := setupSeriesExporter(t)

	points := []domain.AdjustedPricePoint{
		{Family: "P", Slot: "Pv1", Day: day("2021-01-14"), ContractID: "P2102", RawClose: 6980, AdjustedClose: 6980, Factor: 1},
		{Family: "P", Slot: "Pv1", Day: day("2021-01-13"), ContractID: "P2101", RawClose: 7000, AdjustedClose: 7000 * 6980.0 / 7010.0, Factor: 6980.0 / 7010.0},
	}

	require.NoError(t, exp.ExportPoints("P", points))

	rows := readExport(t, paths, "P_series.csv")
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"family", "slot", "trading_day", "contract_id", "raw_close", "adjustment_factor", "adjusted_close", "unadjusted"}, rows[0])

	// Full-precision value 6970.042796... rounds to one decimal only here.
	assert.Equal(t, []string{"P", "Pv1", "2021-01-13", "P2101", "7000.0", "0.995720", "6970.0", "false"}, rows[1])
	assert.Equal(t, []string{"P", "Pv1", "2021-01-14", "P2102", "6980.0", "1.000000", "6980.0", "false"}, rows[2])
}

func TestSeriesExporter_ExportDiagnostics(t *testing.T) {
	exp, paths := setupSeriesExporter(t)

	diags := []domain.Diagnostic{
		{
			Kind:       domain.DiagnosticRollRejected,
			Family:     "P",
			Slot:       "Pv1",
			Day:        day("2021-01-15"),
			ContractID: "P2101",
			Detail:     "candidate expires 2021-01-22, slot floor is 2021-02-19",
		},
	}

	require.NoError(t, exp.ExportDiagnostics("P", diags))

	rows := readExport(t, paths, "P_diagnostics.csv")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"kind", "family", "slot", "trading_day", "contract_id", "detail", "run_id"}, rows[0])
	assert.Equal(t, "roll_rejected", rows[1][0])
	assert.Equal(t, "P2101", rows[1][4])
	assert.Equal(t, "run-2f6c", rows[1][6])
}

func TestSeriesExporter_EmptyDiagnosticsStillWritesFile(t *testing.T) {
	exp, paths := setupSeriesExporter(t)

	require.NoError(t, exp.ExportDiagnostics("IF", nil))

	rows := readExport(t, paths, "IF_diagnostics.csv")
	require.Len(t, rows, 1)
}

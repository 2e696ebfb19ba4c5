package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futurescli/internal/config"
	"futurescli/internal/series"
	"futurescli/pkg/contracts/domain"
)

func TestSelectSpecs(t *testing.T) {
	cfg := config.Default()

	t.Run("no filter keeps all families", func(t *testing.T) {
		specs, err := selectSpecs(cfg, nil)
		require.NoError(t, err)
		require.Len(t, specs, 2)
		assert.Equal(t, "IF", specs[0].Family)
		assert.Equal(t, "P", specs[1].Family)
	})

	t.Run("filter selects in flag order", func(t *testing.T) {
		specs, err := selectSpecs(cfg, []string{"P", "IF"})
		require.NoError(t, err)
		require.Len(t, specs, 2)
		assert.Equal(t, "P", specs[0].Family)
		assert.Equal(t, "IF", specs[1].Family)
	})

	t.Run("unknown family fails", func(t *testing.T) {
		_, err := selectSpecs(cfg, []string{"ZZ"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	})
}

func TestRenderRollSummary(t *testing.T) {
	day := time.Date(2021, 1, 14, 0, 0, 0, 0, time.UTC)
	results := []*series.Result{
		{
			Family: "P",
			Rolls: []domain.RollEvent{
				// Initial assignments stay out of the summary.
				{Family: "P", Slot: "Pv1", Day: day.AddDate(0, 0, -1), ToID: "P2101", PriceTo: 7000},
				{Family: "P", Slot: "Pv1", Day: day, FromID: "P2101", ToID: "P2102", PriceFrom: 7010, PriceTo: 6980},
			},
		},
	}

	var buf bytes.Buffer
	renderRollSummary(&buf, results)

	out := buf.String()
	assert.Contains(t, out, "Rolling path:")
	assert.Contains(t, out, "P2101")
	assert.Contains(t, out, "P2102")
	assert.Contains(t, out, "7010.0")
	assert.NotContains(t, out, "2021-01-13")
}

func TestRenderRollSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderRollSummary(&buf, []*series.Result{{Family: "IF"}})
	assert.Contains(t, buf.String(), "No rollovers")
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "7010.0", formatPrice(7010))
	assert.Equal(t, "-", formatPrice(0))
}

func TestFormatFlag(t *testing.T) {
	assert.Equal(t, "yes", formatFlag(true))
	assert.Equal(t, "no", formatFlag(false))
}

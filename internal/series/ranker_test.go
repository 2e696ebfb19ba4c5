package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futurescli/pkg/contracts/domain"
)

// TestRankDayCalendar tests expiry-based ranking
func TestRankDayCalendar(t *testing.T) {
	spec := FamilySpec{Family: "IF", Criterion: CriterionCalendar, SlotPrefix: "c", Depth: 3}
	day := testDay("2021-01-05")

	t.Run("nearest expiry first", func(t *testing.T) {
		records := []domain.ContractRecord{
			testRecord("IF", "IF2103", "2021-01-05", "2021-03-19", 4950, 9000, 20000),
			testRecord("IF", "IF2101", "2021-01-05", "2021-01-15", 5000, 80000, 120000),
			testRecord("IF", "IF2102", "2021-01-05", "2021-02-19", 4980, 30000, 60000),
		}

		ranked := RankDay(day, records, spec)
		require.Len(t, ranked, 3)
		assert.Equal(t, "IF2101", ranked[0].Record.ContractID)
		assert.Equal(t, "IF2102", ranked[1].Record.ContractID)
		assert.Equal(t, "IF2103", ranked[2].Record.ContractID)
		for i, rc := range ranked {
			assert.Equal(t, i+1, rc.Rank)
		}
	})

	t.Run("equal delist dates break on contract id", func(t *testing.T) {
		records := []domain.ContractRecord{
			testRecord("IF", "IF2102B", "2021-01-05", "2021-02-19", 4981, 1000, 2000),
			testRecord("IF", "IF2102A", "2021-01-05", "2021-02-19", 4980, 3000, 6000),
		}

		ranked := RankDay(day, records, spec)
		require.Len(t, ranked, 2)
		assert.Equal(t, "IF2102A", ranked[0].Record.ContractID)
		assert.Equal(t, "IF2102B", ranked[1].Record.ContractID)
	})
}

// TestRankDayActivity tests volume, open interest, and composite ranking
func TestRankDayActivity(t *testing.T) {
	day := testDay("2021-01-05")
	records := []domain.ContractRecord{
		testRecord("P", "P2105", "2021-01-05", "2021-05-14", 7000, 100, 20000),
		testRecord("P", "P2109", "2021-01-05", "2021-09-15", 6950, 150, 12000),
		testRecord("P", "P2201", "2021-01-05", "2022-01-14", 6900, 120, 50000),
	}

	t.Run("volume descending", func(t *testing.T) {
		spec := FamilySpec{Family: "P", Criterion: CriterionVolume, SlotPrefix: "v", Depth: 3}
		ranked := RankDay(day, records, spec)
		require.Len(t, ranked, 3)
		assert.Equal(t, "P2109", ranked[0].Record.ContractID)
		assert.Equal(t, "P2201", ranked[1].Record.ContractID)
		assert.Equal(t, "P2105", ranked[2].Record.ContractID)
		assert.InDelta(t, 150, ranked[0].Score, 1e-9)
	})

	t.Run("open interest descending", func(t *testing.T) {
		spec := FamilySpec{Family: "P", Criterion: CriterionOpenInterest, SlotPrefix: "v", Depth: 3}
		ranked := RankDay(day, records, spec)
		require.Len(t, ranked, 3)
		assert.Equal(t, "P2201", ranked[0].Record.ContractID)
		assert.Equal(t, "P2105", ranked[1].Record.ContractID)
		assert.Equal(t, "P2109", ranked[2].Record.ContractID)
	})

	t.Run("equal volume breaks on contract id", func(t *testing.T) {
		spec := FamilySpec{Family: "P", Criterion: CriterionVolume, SlotPrefix: "v", Depth: 3}
		tied := []domain.ContractRecord{
			testRecord("P", "P2109", "2021-01-05", "2021-09-15", 6950, 100, 12000),
			testRecord("P", "P2105", "2021-01-05", "2021-05-14", 7000, 100, 20000),
		}
		ranked := RankDay(day, tied, spec)
		require.Len(t, ranked, 2)
		assert.Equal(t, "P2105", ranked[0].Record.ContractID)
	})
}

// TestRankDayComposite tests the weighted volume/open-interest blend
func TestRankDayComposite(t *testing.T) {
	day := testDay("2021-01-05")
	records := []domain.ContractRecord{
		// A leads on volume, B leads on open interest.
		testRecord("P", "P2105", "2021-01-05", "2021-05-14", 7000, 100, 20000),
		testRecord("P", "P2109", "2021-01-05", "2021-09-15", 6950, 50, 50000),
	}

	tests := []struct {
		name     string
		weights  ActivityWeights
		expected string
		score    float64
	}{
		{
			name:     "equal weights favor the open interest leader",
			weights:  ActivityWeights{Volume: 0.5, OpenInterest: 0.5},
			expected: "P2109",
			score:    0.5*(50.0/100.0) + 0.5*1.0,
		},
		{
			name:     "volume-heavy weights favor the volume leader",
			weights:  ActivityWeights{Volume: 0.8, OpenInterest: 0.2},
			expected: "P2105",
			score:    0.8*1.0 + 0.2*(20000.0/50000.0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := FamilySpec{
				Family:     "P",
				Criterion:  CriterionComposite,
				SlotPrefix: "v",
				Depth:      3,
				Weights:    tt.weights,
			}
			ranked := RankDay(day, records, spec)
			require.Len(t, ranked, 2)
			assert.Equal(t, tt.expected, ranked[0].Record.ContractID)
			assert.InDelta(t, tt.score, ranked[0].Score, 1e-9)
		})
	}
}

// TestRankDayListingWindow tests that only currently listed contracts rank
func TestRankDayListingWindow(t *testing.T) {
	spec := FamilySpec{Family: "IF", Criterion: CriterionCalendar, SlotPrefix: "c", Depth: 3}
	day := testDay("2021-01-15")

	delisted := testRecord("IF", "IF2101", "2021-01-15", "2021-01-15", 5000, 100, 200)
	live := testRecord("IF", "IF2102", "2021-01-15", "2021-02-19", 4980, 100, 200)
	unlisted := testRecord("IF", "IF2106", "2021-01-15", "2021-06-18", 4960, 100, 200)
	unlisted.ListDate = testDay("2021-03-01")

	ranked := RankDay(day, []domain.ContractRecord{delisted, live, unlisted}, spec)
	require.Len(t, ranked, 1)
	assert.Equal(t, "IF2102", ranked[0].Record.ContractID)

	assert.Nil(t, RankDay(day, []domain.ContractRecord{delisted, unlisted}, spec))
	assert.Nil(t, RankDay(day, nil, spec))
}

// TestRankDayDepth tests truncation to the configured slot count
func TestRankDayDepth(t *testing.T) {
	spec := FamilySpec{Family: "IF", Criterion: CriterionCalendar, SlotPrefix: "c", Depth: 3}
	day := testDay("2021-01-05")

	var records []domain.ContractRecord
	delists := []string{"2021-01-15", "2021-02-19", "2021-03-19", "2021-06-18", "2021-09-17"}
	for i, delist := range delists {
		records = append(records, testRecord("IF", "IF210"+string(rune('1'+i)), "2021-01-05", delist, 5000, 100, 200))
	}

	ranked := RankDay(day, records, spec)
	require.Len(t, ranked, 3)
	assert.Equal(t, "IF2101", ranked[0].Record.ContractID)
	assert.Equal(t, "IF2103", ranked[2].Record.ContractID)

	// Fewer contracts than slots yields a short list, not an error.
	short := RankDay(day, records[:2], spec)
	assert.Len(t, short, 2)
}

// Test fixture helpers shared across the package's test files.

// testDay parses a YYYY-MM-DD trading day for fixtures.
func testDay(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// testRecord builds a contract record with the fields the engine reads.
// The list date defaults to well before any fixture trading day.
func testRecord(family, id, day, delist string, close, volume, oi float64) domain.ContractRecord {
	return domain.ContractRecord{
		Family:       family,
		ContractID:   id,
		Day:          testDay(day),
		ListDate:     testDay("2020-01-01"),
		DelistDate:   testDay(delist),
		Close:        close,
		Volume:       volume,
		OpenInterest: oi,
	}
}

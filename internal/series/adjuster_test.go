package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futurescli/pkg/contracts/domain"
)

func rawPt(day, id string, close float64) RawPoint {
	return RawPoint{Day: testDay(day), ContractID: id, Close: close}
}

func rollEv(slot, day, from, to string, priceFrom, priceTo float64) domain.RollEvent {
	return domain.RollEvent{
		Family:    "IF",
		Slot:      slot,
		Day:       testDay(day),
		FromID:    from,
		ToID:      to,
		PriceFrom: priceFrom,
		PriceTo:   priceTo,
	}
}

// TestBackAdjustLiveSegment tests that a series without boundaries
// keeps its raw prices
func TestBackAdjustLiveSegment(t *testing.T) {
	spec := FamilySpec{Family: "IF", Criterion: CriterionCalendar, SlotPrefix: "c", Depth: 1}
	points := []RawPoint{
		rawPt("2021-01-04", "IF2103", 100.0),
		rawPt("2021-01-05", "IF2103", 101.5),
		rawPt("2021-01-06", "IF2103", 99.8),
	}
	// The opening assignment is not a boundary.
	rolls := []domain.RollEvent{rollEv("IFc1", "2021-01-04", "", "IF2103", 0, 100.0)}

	adjusted := BackAdjust(spec, "IFc1", points, rolls, nil)
	require.Len(t, adjusted, 3)
	for i, pt := range adjusted {
		assert.InDelta(t, points[i].Close, pt.AdjustedClose, 1e-12)
		assert.InDelta(t, 1.0, pt.Factor, 1e-12)
		assert.False(t, pt.Unadjusted)
	}
}

// TestBackAdjustSingleBoundary tests the ratio scaling of the segment
// behind one roll
func TestBackAdjustSingleBoundary(t *testing.T) {
	spec := FamilySpec{Family: "IF", Criterion: CriterionCalendar, SlotPrefix: "c", Depth: 1}
	points := []RawPoint{
		rawPt("2021-01-13", "IF2101", 100.0),
		rawPt("2021-01-14", "IF2101", 100.5),
		rawPt("2021-01-15", "IF2102", 102.5),
		rawPt("2021-01-18", "IF2102", 103.0),
	}
	// Outgoing closed at 100, incoming at 102: ratio 1.02.
	rolls := []domain.RollEvent{rollEv("IFc1", "2021-01-15", "IF2101", "IF2102", 100.0, 102.0)}

	adjusted := BackAdjust(spec, "IFc1", points, rolls, nil)
	require.Len(t, adjusted, 4)

	assert.InDelta(t, 1.02, adjusted[0].Factor, 1e-12)
	assert.InDelta(t, 102.0, adjusted[0].AdjustedClose, 1e-9)
	assert.InDelta(t, 100.5*1.02, adjusted[1].AdjustedClose, 1e-9)

	// The live segment is untouched raw data.
	assert.InDelta(t, 1.0, adjusted[2].Factor, 1e-12)
	assert.InDelta(t, 102.5, adjusted[2].AdjustedClose, 1e-12)
	assert.InDelta(t, 103.0, adjusted[3].AdjustedClose, 1e-12)

	// Raw closes survive alongside the adjusted ones.
	assert.InDelta(t, 100.0, adjusted[0].RawClose, 1e-12)
	assert.Equal(t, "IF2101", adjusted[0].ContractID)
}

// TestBackAdjustChainedBoundaries tests that factors compound across
// several rolls and that each splice meets without a jump
func TestBackAdjustChainedBoundaries(t *testing.T) {
	spec := FamilySpec{Family: "IF", Criterion: CriterionCalendar, SlotPrefix: "c", Depth: 1}
	points := []RawPoint{
		rawPt("2021-01-04", "IF2101", 10.0),
		rawPt("2021-01-05", "IF2101", 10.2),
		rawPt("2021-01-06", "IF2102", 10.5),
		rawPt("2021-01-07", "IF2102", 10.4),
		rawPt("2021-01-08", "IF2103", 11.0),
	}
	rolls := []domain.RollEvent{
		rollEv("IFc1", "2021-01-06", "IF2101", "IF2102", 10.2, 10.5),
		rollEv("IFc1", "2021-01-08", "IF2102", "IF2103", 10.4, 11.0),
	}

	adjusted := BackAdjust(spec, "IFc1", points, rolls, nil)
	require.Len(t, adjusted, 5)

	midFactor := 11.0 / 10.4
	oldFactor := midFactor * (10.5 / 10.2)

	assert.InDelta(t, oldFactor, adjusted[0].Factor, 1e-12)
	assert.InDelta(t, oldFactor, adjusted[1].Factor, 1e-12)
	assert.InDelta(t, midFactor, adjusted[2].Factor, 1e-12)
	assert.InDelta(t, midFactor, adjusted[3].Factor, 1e-12)
	assert.InDelta(t, 1.0, adjusted[4].Factor, 1e-12)

	// Continuity across each splice: the outgoing close scaled by the
	// older factor equals the incoming close scaled by the newer one.
	assert.InDelta(t, 10.5*midFactor, adjusted[1].AdjustedClose, 1e-9)
	assert.InDelta(t, 11.0, adjusted[3].AdjustedClose, 1e-9)
	assert.InDelta(t, 11.0, adjusted[4].AdjustedClose, 1e-12)
}

// TestBackAdjustUndefinedRatio tests that a boundary without usable
// prices carries the factor through and flags the segment behind it
func TestBackAdjustUndefinedRatio(t *testing.T) {
	spec := FamilySpec{Family: "IF", Criterion: CriterionCalendar, SlotPrefix: "c", Depth: 1}

	t.Run("single broken boundary", func(t *testing.T) {
		recorder := NewRecorder()
		points := []RawPoint{
			rawPt("2021-01-04", "IF2101", 10.0),
			rawPt("2021-01-05", "IF2102", 10.5),
		}
		rolls := []domain.RollEvent{rollEv("IFc1", "2021-01-05", "IF2101", "IF2102", 0, 10.5)}

		adjusted := BackAdjust(spec, "IFc1", points, rolls, recorder)
		require.Len(t, adjusted, 2)
		assert.InDelta(t, 10.0, adjusted[0].AdjustedClose, 1e-12)
		assert.InDelta(t, 1.0, adjusted[0].Factor, 1e-12)
		assert.True(t, adjusted[0].Unadjusted)
		assert.False(t, adjusted[1].Unadjusted)
		assert.Equal(t, 1, recorder.Count(domain.DiagnosticAdjustmentUndefined))
	})

	t.Run("good boundary beyond a broken one still applies", func(t *testing.T) {
		recorder := NewRecorder()
		points := []RawPoint{
			rawPt("2021-01-04", "IF2101", 10.0),
			rawPt("2021-01-05", "IF2101", 10.2),
			rawPt("2021-01-06", "IF2102", 10.5),
			rawPt("2021-01-07", "IF2102", 10.4),
			rawPt("2021-01-08", "IF2103", 11.0),
		}
		rolls := []domain.RollEvent{
			rollEv("IFc1", "2021-01-06", "IF2101", "IF2102", 10.2, 10.5),
			rollEv("IFc1", "2021-01-08", "IF2102", "IF2103", 0, 11.0),
		}

		adjusted := BackAdjust(spec, "IFc1", points, rolls, recorder)
		require.Len(t, adjusted, 5)

		// Middle segment sits behind the broken splice.
		assert.True(t, adjusted[2].Unadjusted)
		assert.True(t, adjusted[3].Unadjusted)
		assert.InDelta(t, 1.0, adjusted[3].Factor, 1e-12)

		// The older splice still has a well-defined ratio.
		assert.False(t, adjusted[0].Unadjusted)
		assert.InDelta(t, 10.5/10.2, adjusted[1].Factor, 1e-12)
		assert.InDelta(t, 10.5, adjusted[1].AdjustedClose, 1e-9)

		assert.Equal(t, 1, recorder.Count(domain.DiagnosticAdjustmentUndefined))
	})
}

// TestBackAdjustFiltersOtherSlots tests that only the named slot's
// rolls act as boundaries
func TestBackAdjustFiltersOtherSlots(t *testing.T) {
	spec := FamilySpec{Family: "IF", Criterion: CriterionCalendar, SlotPrefix: "c", Depth: 2}
	points := []RawPoint{
		rawPt("2021-01-04", "IF2102", 10.0),
		rawPt("2021-01-05", "IF2102", 10.1),
	}
	rolls := []domain.RollEvent{
		rollEv("IFc1", "2021-01-05", "IF2101", "IF2102", 10.2, 10.5),
	}

	adjusted := BackAdjust(spec, "IFc2", points, rolls, nil)
	require.Len(t, adjusted, 2)
	assert.InDelta(t, 1.0, adjusted[0].Factor, 1e-12)
	assert.InDelta(t, 10.0, adjusted[0].AdjustedClose, 1e-12)
}

// TestBackAdjustEmpty tests the degenerate inputs
func TestBackAdjustEmpty(t *testing.T) {
	spec := FamilySpec{Family: "IF", Criterion: CriterionCalendar, SlotPrefix: "c", Depth: 1}
	assert.Nil(t, BackAdjust(spec, "IFc1", nil, nil, nil))
	assert.Nil(t, BackAdjust(spec, "IFc1", []RawPoint{}, nil, nil))
}

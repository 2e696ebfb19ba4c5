package series

import (
	"sort"

	"futurescli/pkg/contracts/domain"
)

// BackAdjust splices one slot's contract segments into a continuous
// price series. Roll events are applied in reverse chronological
// order: the live segment keeps its raw prices (factor exactly 1), and
// each boundary multiplies the cumulative factor by the incoming
// contract's roll-day price over the outgoing one's before the factor
// is applied to the older segment. The adjusted close on the last day
// of an outgoing segment therefore meets the incoming segment without
// a jump. Values stay at full precision; rounding belongs to export.
//
// A boundary whose prices cannot form a ratio (zero or missing close)
// leaves the factor unchanged; the segment below it is flagged
// Unadjusted and the condition is recorded instead of propagating an
// infinite ratio.
func BackAdjust(spec FamilySpec, slot string, points []RawPoint, rolls []domain.RollEvent, recorder *Recorder) []domain.AdjustedPricePoint {
	if len(points) == 0 {
		return nil
	}
	if recorder == nil {
		recorder = NewRecorder()
	}

	// Boundaries are this slot's transitions, newest first. The
	// initial assignment opens the first segment but is not a
	// boundary.
	boundaries := make([]domain.RollEvent, 0, len(rolls))
	for _, ev := range rolls {
		if ev.Slot == slot && !ev.Initial() {
			boundaries = append(boundaries, ev)
		}
	}
	sort.Slice(boundaries, func(i, j int) bool {
		return boundaries[i].Day.After(boundaries[j].Day)
	})

	out := make([]domain.AdjustedPricePoint, len(points))
	factor := 1.0
	unadjusted := false
	next := 0

	for i := len(points) - 1; i >= 0; i-- {
		pt := points[i]
		for next < len(boundaries) && pt.Day.Before(boundaries[next].Day) {
			ev := boundaries[next]
			if ev.PriceFrom > 0 && ev.PriceTo > 0 {
				factor *= ev.PriceTo / ev.PriceFrom
				unadjusted = false
			} else {
				unadjusted = true
				recorder.Record(domain.Diagnostic{
					Kind:       domain.DiagnosticAdjustmentUndefined,
					Family:     spec.Family,
					Slot:       slot,
					Day:        ev.Day,
					ContractID: ev.ToID,
					Detail:     "roll price missing, factor carried unchanged across boundary",
				})
			}
			next++
		}
		out[i] = domain.AdjustedPricePoint{
			Family:        spec.Family,
			Slot:          slot,
			Day:           pt.Day,
			ContractID:    pt.ContractID,
			RawClose:      pt.Close,
			AdjustedClose: pt.Close * factor,
			Factor:        factor,
			Unadjusted:    unadjusted,
		}
	}
	return out
}

package series

import (
	"sort"
	"time"

	"futurescli/pkg/contracts/domain"
)

// RankDay orders one day's listed contracts of a single family into
// generic ranks under the spec's criterion.
//
// The stage is pure and carries no memory across days. Contracts whose
// listing window does not cover the day are skipped; ties are broken by
// ascending contract id so the ordering is deterministic. At most
// spec.Depth entries are returned; a day with fewer listed contracts
// yields a short list, which is not an error.
func RankDay(day time.Time, records []domain.ContractRecord, spec FamilySpec) []RankedContract {
	var maxVolume, maxOI float64
	live := make([]domain.ContractRecord, 0, len(records))
	for _, rec := range records {
		if rec.Delisted(day) {
			continue
		}
		if !rec.ListDate.IsZero() && day.Before(rec.ListDate) {
			continue
		}
		live = append(live, rec)
		if rec.Volume > maxVolume {
			maxVolume = rec.Volume
		}
		if rec.OpenInterest > maxOI {
			maxOI = rec.OpenInterest
		}
	}
	if len(live) == 0 {
		return nil
	}

	ranked := make([]RankedContract, len(live))
	for i, rec := range live {
		ranked[i] = RankedContract{
			Record: rec,
			Score:  activityScore(rec, spec, maxVolume, maxOI),
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		return rankedLess(ranked[i], ranked[j], spec.Criterion)
	})

	if len(ranked) > spec.Depth {
		ranked = ranked[:spec.Depth]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// rankedLess orders two contracts under the given criterion. Calendar
// series put the nearest expiry first; activity series put the highest
// score first. Equal keys fall back to ascending contract id.
func rankedLess(a, b RankedContract, criterion Criterion) bool {
	switch criterion {
	case CriterionCalendar:
		if !a.Record.DelistDate.Equal(b.Record.DelistDate) {
			return a.Record.DelistDate.Before(b.Record.DelistDate)
		}
	default:
		if a.Score != b.Score {
			return a.Score > b.Score
		}
	}
	return a.Record.ContractID < b.Record.ContractID
}

// activityScore computes the ranking measure for one contract. The
// composite criterion normalizes volume and open interest against the
// day's maxima so the two components blend on comparable scales.
func activityScore(rec domain.ContractRecord, spec FamilySpec, maxVolume, maxOI float64) float64 {
	switch spec.Criterion {
	case CriterionVolume:
		return rec.Volume
	case CriterionOpenInterest:
		return rec.OpenInterest
	case CriterionComposite:
		var score float64
		if maxVolume > 0 {
			score += spec.Weights.Volume * rec.Volume / maxVolume
		}
		if maxOI > 0 {
			score += spec.Weights.OpenInterest * rec.OpenInterest / maxOI
		}
		return score
	default:
		return 0
	}
}

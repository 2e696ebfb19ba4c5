// Package series builds continuous ("generic") futures series from raw
// per-contract daily data.
//
// A futures family (index futures ranked by expiry, commodity futures
// ranked by activity) trades through many physical contracts, each
// alive only for months. A generic slot such as IFc1 or Pv2 is a
// labeled position backed by different physical contracts over time;
// this package decides, for every trading day, which contract backs
// each slot, detects rollovers, and splices the contract segments into
// one back-adjusted price curve without artificial jumps at roll
// boundaries.
//
// # Pipeline
//
// Three stages run in a fixed order per family:
//
//  1. Rank (ranker.go): pure and stateless. Each day's listed
//     contracts are ordered under the family's criterion: ascending
//     delist date for calendar series, descending volume, open
//     interest, or a normalized composite for activity series. Ties
//     break on ascending contract id so the ordering is deterministic.
//  2. Select (selector.go): stateful and strictly forward-only. Each
//     slot keeps its incumbent until the contract at the slot's rank
//     differs and expires strictly after every contract the slot has
//     already held. That floor is the no-roll-back rule: a slot never
//     returns to a contract it has vacated, no matter how favorably
//     the old contract re-ranks later. An incumbent that leaves the
//     universe is replaced the same day when an admissible successor
//     exists, otherwise the slot gaps until one appears.
//  3. Adjust (adjuster.go): strictly backward-only. Roll events are
//     replayed newest first, multiplying a cumulative factor by
//     price_to/price_from at each boundary and applying it to the
//     older segment. The live segment keeps factor 1, so current
//     prices are always the market's own.
//
// Stages hand fully materialized tables to each other by value.
// Anomalies (rejected rolls, forced rolls, universe gaps, undefined
// adjustment ratios) are routine outcomes, not errors: they flow into
// an injected Recorder and come back as structured diagnostics on the
// Result.
//
// # Usage Example
//
//	spec := series.FamilySpec{
//	    Family:     "IF",
//	    Criterion:  series.CriterionCalendar,
//	    SlotPrefix: "c",
//	    Depth:      3,
//	}
//
//	builder := series.NewBuilder(spec, slog.Default())
//	result, err := builder.Build(ctx, records)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, roll := range result.Rolls {
//	    fmt.Printf("%s: %s -> %s on %s\n",
//	        roll.Slot, roll.FromID, roll.ToID, roll.Day.Format("2006-01-02"))
//	}
//
// Multiple families share no state and can be built concurrently with
// Run, which fans out one goroutine per family.
//
// # Determinism
//
// Rebuilding from identical input yields identical assignment, roll,
// and adjusted-price tables. The selector consumes days in strictly
// increasing order and fails fast when fed anything else; the ranker
// breaks every tie deterministically; the adjuster's factor chain
// depends only on the roll table. Adjusted values carry full float
// precision here and are rounded to one decimal place only at export,
// so factor chains do not accumulate rounding error.
package series

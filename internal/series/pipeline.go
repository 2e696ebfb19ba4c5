package series

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"futurescli/pkg/contracts/domain"
)

// Builder runs the rank, select, and adjust stages for one family.
// Stages pass fully materialized tables by value; the only state is
// inside the Selector, which the Builder owns for the duration of a
// single Build call, so a Builder may be reused across runs.
type Builder struct {
	spec    FamilySpec
	logger  *slog.Logger
	timeout time.Duration
}

// NewBuilder creates a builder for one family with the specified spec
func NewBuilder(spec FamilySpec, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		spec:    spec,
		logger:  logger,
		timeout: DefaultBuildTimeout,
	}
}

// SetTimeout overrides the per-build timeout.
func (b *Builder) SetTimeout(d time.Duration) {
	if d > 0 {
		b.timeout = d
	}
}

// Build constructs the family's generic series from its contract
// records. Records may arrive in any order; they are grouped by
// trading day and replayed chronologically through the selector, then
// each slot's realized sequence is back-adjusted. Records belonging to
// a different family are rejected before any processing begins.
func (b *Builder) Build(ctx context.Context, records []domain.ContractRecord) (*Result, error) {
	start := time.Now()

	if err := b.spec.Validate(); err != nil {
		return nil, fmt.Errorf("validate family spec: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no contract records for family %s", b.spec.Family)
	}

	b.logger.InfoContext(ctx, "starting series build",
		"family", b.spec.Family,
		"criterion", string(b.spec.Criterion),
		"depth", b.spec.Depth,
		"records", len(records),
	)

	buildCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	days, byDay, err := b.groupByDay(records)
	if err != nil {
		return nil, fmt.Errorf("group records by day: %w", err)
	}

	recorder := NewLoggedRecorder(b.logger)
	selector := NewSelector(b.spec, recorder)
	result := &Result{Family: b.spec.Family}

	for _, day := range days {
		select {
		case <-buildCtx.Done():
			return nil, fmt.Errorf("series build timed out: %w", buildCtx.Err())
		default:
		}

		dayRecords := byDay[day]
		ranked := RankDay(day, dayRecords, b.spec)
		universe := make(map[string]domain.ContractRecord, len(dayRecords))
		for _, rec := range dayRecords {
			universe[rec.ContractID] = rec
		}

		assignments, rolls, err := selector.Step(day, ranked, universe)
		if err != nil {
			return nil, fmt.Errorf("select contracts for %s: %w", day.Format("2006-01-02"), err)
		}
		result.Assignments = append(result.Assignments, assignments...)
		result.Rolls = append(result.Rolls, rolls...)
	}

	closes := closeIndex(records)
	for rank := 1; rank <= b.spec.Depth; rank++ {
		slot := b.spec.SlotName(rank)
		points := slotPoints(slot, result.Assignments, closes)
		result.Points = append(result.Points, BackAdjust(b.spec, slot, points, result.Rolls, recorder)...)
	}
	result.Diagnostics = recorder.Diagnostics()

	b.logger.InfoContext(ctx, "series build completed",
		"family", b.spec.Family,
		"duration", time.Since(start),
		"days", len(days),
		"assignments", len(result.Assignments),
		"rolls", len(result.Rolls),
		"diagnostics", len(result.Diagnostics),
	)

	return result, nil
}

// groupByDay indexes records by trading day and returns the distinct
// days in chronological order.
func (b *Builder) groupByDay(records []domain.ContractRecord) ([]time.Time, map[time.Time][]domain.ContractRecord, error) {
	byDay := make(map[time.Time][]domain.ContractRecord)
	for _, rec := range records {
		if rec.Family != b.spec.Family {
			return nil, nil, ValidationError{
				Field:   "family",
				Message: fmt.Sprintf("record belongs to family %s, builder handles %s", rec.Family, b.spec.Family),
				Value:   rec.ContractID,
			}
		}
		if rec.Day.IsZero() {
			return nil, nil, ValidationError{
				Field:   "day",
				Message: "record has no trading day",
				Value:   rec.ContractID,
			}
		}
		byDay[rec.Day] = append(byDay[rec.Day], rec)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, byDay, nil
}

// closeIndex maps (contract id, day) to that day's close.
func closeIndex(records []domain.ContractRecord) map[string]map[time.Time]float64 {
	idx := make(map[string]map[time.Time]float64)
	for _, rec := range records {
		m := idx[rec.ContractID]
		if m == nil {
			m = make(map[time.Time]float64)
			idx[rec.ContractID] = m
		}
		m[rec.Day] = rec.Close
	}
	return idx
}

// slotPoints extracts one slot's realized day sequence with raw
// closes. Assignments are already in day order, so the extracted
// points are too.
func slotPoints(slot string, assignments []domain.SlotAssignment, closes map[string]map[time.Time]float64) []RawPoint {
	var points []RawPoint
	for _, a := range assignments {
		if a.Slot != slot {
			continue
		}
		points = append(points, RawPoint{
			Day:        a.Day,
			ContractID: a.ContractID,
			Close:      closes[a.ContractID][a.Day],
		})
	}
	return points
}

// Run builds every family's series concurrently. Families share no
// mutable state, so each runs on its own goroutine; the first failure
// cancels the rest. Results come back in spec order.
func Run(ctx context.Context, specs []FamilySpec, records []domain.ContractRecord, logger *slog.Logger) ([]*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no family specs to build")
	}

	byFamily := make(map[string][]domain.ContractRecord)
	for _, rec := range records {
		byFamily[rec.Family] = append(byFamily[rec.Family], rec)
	}

	results := make([]*Result, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			res, err := NewBuilder(spec, logger).Build(gctx, byFamily[spec.Family])
			if err != nil {
				return fmt.Errorf("build family %s: %w", spec.Family, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

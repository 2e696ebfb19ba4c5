package series

import (
	"fmt"
	"time"

	"futurescli/pkg/contracts/domain"
)

// slotState carries one generic slot's selection state across days.
// floor is the latest delist date the slot has ever held; it only moves
// forward, which is what makes a generic series irreversible.
type slotState struct {
	incumbent string
	floor     time.Time
	lastClose float64

	// pendingFrom remembers an incumbent that vanished without an
	// admissible successor, so the roll closing its segment can still
	// name it once one appears.
	pendingFrom      string
	pendingFromClose float64
}

// Selector realizes generic slot assignments from daily rankings. It
// consumes trading days in strictly increasing order and enforces the
// no-roll-back rule: once a slot has held a contract with a given
// delist date, it never accepts one expiring on or before that date,
// no matter how favorably the newcomer ranks. Rank fluctuations alone
// never cause a roll back.
type Selector struct {
	spec     FamilySpec
	recorder *Recorder
	slots    []slotState
	lastDay  time.Time
}

// NewSelector creates a selector for one family. The recorder receives
// every rejected roll, forced roll, and universe gap; passing nil
// discards diagnostics.
func NewSelector(spec FamilySpec, recorder *Recorder) *Selector {
	if recorder == nil {
		recorder = NewRecorder()
	}
	return &Selector{
		spec:     spec,
		recorder: recorder,
		slots:    make([]slotState, spec.Depth),
	}
}

// Step processes one trading day. ranked is the day's output of
// RankDay; universe holds every record listed that day keyed by
// contract id. The universe is a superset of the ranked list, since
// incumbency does not depend on staying within the top ranks.
func (s *Selector) Step(day time.Time, ranked []RankedContract, universe map[string]domain.ContractRecord) ([]domain.SlotAssignment, []domain.RollEvent, error) {
	if !s.lastDay.IsZero() && !day.After(s.lastDay) {
		return nil, nil, fmt.Errorf("trading days out of order: %s does not follow %s",
			day.Format("2006-01-02"), s.lastDay.Format("2006-01-02"))
	}
	s.lastDay = day

	var assignments []domain.SlotAssignment
	var rolls []domain.RollEvent
	for i := range s.slots {
		assignment, roll := s.stepSlot(day, i, ranked, universe)
		if assignment != nil {
			assignments = append(assignments, *assignment)
		}
		if roll != nil {
			rolls = append(rolls, *roll)
		}
	}
	return assignments, rolls, nil
}

// stepSlot advances a single slot by one day.
func (s *Selector) stepSlot(day time.Time, idx int, ranked []RankedContract, universe map[string]domain.ContractRecord) (*domain.SlotAssignment, *domain.RollEvent) {
	st := &s.slots[idx]
	rank := idx + 1
	slot := s.spec.SlotName(rank)

	if st.incumbent == "" {
		return s.fillSlot(st, slot, rank, day, idx, ranked, universe)
	}

	rec, listed := universe[st.incumbent]
	if !listed {
		return s.forceRoll(st, slot, rank, day, idx, ranked)
	}

	// Incumbent still quoted: refresh its last usable close, then see
	// whether today's contract at this rank challenges it.
	if rec.HasQuote() {
		st.lastClose = rec.Close
	}

	if idx < len(ranked) && ranked[idx].Record.ContractID != st.incumbent {
		cand := ranked[idx]
		if cand.Record.DelistDate.After(st.floor) {
			roll := domain.RollEvent{
				Family:    s.spec.Family,
				Slot:      slot,
				Day:       day,
				FromID:    st.incumbent,
				ToID:      cand.Record.ContractID,
				PriceFrom: rec.Close,
				PriceTo:   cand.Record.Close,
			}
			s.install(st, cand.Record)
			return s.assignment(slot, rank, day, st.incumbent), &roll
		}
		s.recorder.Record(domain.Diagnostic{
			Kind:       domain.DiagnosticRollRejected,
			Family:     s.spec.Family,
			Slot:       slot,
			Day:        day,
			ContractID: cand.Record.ContractID,
			Detail:     fmt.Sprintf("candidate expires %s, slot floor is %s", cand.Record.DelistDate.Format("2006-01-02"), st.floor.Format("2006-01-02")),
		})
	}

	return s.assignment(slot, rank, day, st.incumbent), nil
}

// fillSlot handles a slot with no incumbent: either it has never been
// filled, or its last contract vanished without an admissible
// successor. A vanished incumbent that is quoted again simply resumes
// its segment; that is a data gap, not a roll.
func (s *Selector) fillSlot(st *slotState, slot string, rank int, day time.Time, idx int, ranked []RankedContract, universe map[string]domain.ContractRecord) (*domain.SlotAssignment, *domain.RollEvent) {
	if st.pendingFrom != "" {
		if rec, listed := universe[st.pendingFrom]; listed {
			st.incumbent = st.pendingFrom
			st.pendingFrom = ""
			st.pendingFromClose = 0
			if rec.HasQuote() {
				st.lastClose = rec.Close
			}
			return s.assignment(slot, rank, day, st.incumbent), nil
		}
	}

	cand, ok := s.admissibleFrom(idx, ranked, st.floor)
	if !ok {
		if st.pendingFrom != "" {
			s.recordGap(slot, day)
		}
		return nil, nil
	}

	roll := domain.RollEvent{
		Family:  s.spec.Family,
		Slot:    slot,
		Day:     day,
		ToID:    cand.Record.ContractID,
		PriceTo: cand.Record.Close,
	}
	if st.pendingFrom != "" {
		roll.FromID = st.pendingFrom
		roll.PriceFrom = st.pendingFromClose
		roll.Forced = true
		s.recordForced(slot, day, st.pendingFrom, cand.Record.ContractID)
	}
	s.install(st, cand.Record)
	return s.assignment(slot, rank, day, st.incumbent), &roll
}

// forceRoll handles a day on which the incumbent is no longer quoted.
// If an admissible successor exists it takes over the same day, with
// the vanished incumbent's last recorded close anchoring the roll
// ratio. Otherwise the slot gaps until one appears.
func (s *Selector) forceRoll(st *slotState, slot string, rank int, day time.Time, idx int, ranked []RankedContract) (*domain.SlotAssignment, *domain.RollEvent) {
	cand, ok := s.admissibleFrom(idx, ranked, st.floor)
	if !ok {
		st.pendingFrom = st.incumbent
		st.pendingFromClose = st.lastClose
		st.incumbent = ""
		s.recordGap(slot, day)
		return nil, nil
	}

	roll := domain.RollEvent{
		Family:    s.spec.Family,
		Slot:      slot,
		Day:       day,
		FromID:    st.incumbent,
		ToID:      cand.Record.ContractID,
		PriceFrom: st.lastClose,
		PriceTo:   cand.Record.Close,
		Forced:    true,
	}
	s.recordForced(slot, day, st.incumbent, cand.Record.ContractID)
	s.install(st, cand.Record)
	return s.assignment(slot, rank, day, st.incumbent), &roll
}

// admissibleFrom scans the ranked list from the slot's own rank down
// for the first contract expiring strictly after the floor. Shallower
// ranks belong to shallower slots and are never considered.
func (s *Selector) admissibleFrom(idx int, ranked []RankedContract, floor time.Time) (RankedContract, bool) {
	if idx >= len(ranked) {
		return RankedContract{}, false
	}
	for _, rc := range ranked[idx:] {
		if rc.Record.DelistDate.After(floor) {
			return rc, true
		}
	}
	return RankedContract{}, false
}

// install makes the contract the slot's incumbent and advances the
// expiry floor. Every path into install has already checked that the
// contract's delist date exceeds the current floor.
func (s *Selector) install(st *slotState, rec domain.ContractRecord) {
	st.incumbent = rec.ContractID
	st.floor = rec.DelistDate
	st.pendingFrom = ""
	st.pendingFromClose = 0
	st.lastClose = 0
	if rec.HasQuote() {
		st.lastClose = rec.Close
	}
}

func (s *Selector) assignment(slot string, rank int, day time.Time, contractID string) *domain.SlotAssignment {
	return &domain.SlotAssignment{
		Family:     s.spec.Family,
		Slot:       slot,
		Day:        day,
		ContractID: contractID,
		Rank:       rank,
	}
}

func (s *Selector) recordForced(slot string, day time.Time, from, to string) {
	s.recorder.Record(domain.Diagnostic{
		Kind:       domain.DiagnosticForcedRoll,
		Family:     s.spec.Family,
		Slot:       slot,
		Day:        day,
		ContractID: to,
		Detail:     fmt.Sprintf("incumbent %s left the universe", from),
	})
}

func (s *Selector) recordGap(slot string, day time.Time) {
	s.recorder.Record(domain.Diagnostic{
		Kind:   domain.DiagnosticUniverseGap,
		Family: s.spec.Family,
		Slot:   slot,
		Day:    day,
		Detail: "no admissible contract for slot",
	})
}

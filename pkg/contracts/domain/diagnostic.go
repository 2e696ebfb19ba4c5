package domain

import (
	"time"
)

// DiagnosticKind classifies an anomaly surfaced while building a series.
type DiagnosticKind string

const (
	// DiagnosticRollRejected records a candidate that out-ranked the
	// incumbent but expires no later than a contract the slot already
	// held, so switching to it would walk the slot backwards.
	DiagnosticRollRejected DiagnosticKind = "roll_rejected"

	// DiagnosticForcedRoll records a roll taken because the incumbent
	// left the tradeable universe rather than because a candidate won
	// on activity.
	DiagnosticForcedRoll DiagnosticKind = "forced_roll"

	// DiagnosticUniverseGap records a day on which no admissible
	// contract existed for a slot, leaving the series without a value.
	DiagnosticUniverseGap DiagnosticKind = "universe_gap"

	// DiagnosticAdjustmentUndefined records a roll whose price ratio
	// could not be formed because one side had no usable close. The
	// adjustment factor is carried across such rolls unchanged.
	DiagnosticAdjustmentUndefined DiagnosticKind = "adjustment_undefined"
)

// Diagnostic is one structured anomaly report. Diagnostics never abort
// a build; they accumulate alongside the outputs so that a series can
// be audited after the fact.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind" validate:"required"`
	Family     string         `json:"family" validate:"required"`
	Slot       string         `json:"slot,omitempty"`
	Day        time.Time      `json:"day"`
	ContractID string         `json:"contract_id,omitempty"`
	Detail     string         `json:"detail,omitempty"`
}

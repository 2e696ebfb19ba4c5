package series

import (
	"fmt"
	"time"

	"futurescli/pkg/contracts/domain"
)

// Criterion selects how the contracts of a family are ordered into
// generic slots on each trading day.
type Criterion string

const (
	// CriterionCalendar ranks by ascending delist date; rank 1 is the
	// contract soonest to expire. Used for expiry-driven families such
	// as index futures.
	CriterionCalendar Criterion = "calendar"
	// CriterionVolume ranks by descending traded volume.
	CriterionVolume Criterion = "volume"
	// CriterionOpenInterest ranks by descending open interest.
	CriterionOpenInterest Criterion = "open_interest"
	// CriterionComposite ranks by a weighted blend of volume and open
	// interest, each normalized against the day's maximum.
	CriterionComposite Criterion = "composite"
)

// IsValid checks if the criterion is one of the supported orderings
func (c Criterion) IsValid() bool {
	switch c {
	case CriterionCalendar, CriterionVolume, CriterionOpenInterest, CriterionComposite:
		return true
	}
	return false
}

// Activity reports whether the criterion ranks by market activity
// rather than by the expiry calendar.
func (c Criterion) Activity() bool {
	return c != CriterionCalendar
}

// ActivityWeights blends volume and open interest for the composite
// criterion.
type ActivityWeights struct {
	Volume       float64 `json:"volume"`
	OpenInterest float64 `json:"open_interest"`
}

// DefaultActivityWeights returns the standard equal blend.
func DefaultActivityWeights() ActivityWeights {
	return ActivityWeights{Volume: 0.5, OpenInterest: 0.5}
}

// IsValid checks if weights are valid (sum to 1)
func (aw ActivityWeights) IsValid() bool {
	sum := aw.Volume + aw.OpenInterest
	return aw.Volume >= 0 && aw.OpenInterest >= 0 &&
		sum > 0.99 && sum < 1.01 // Allow small floating point errors
}

// Normalize ensures weights sum to 1
func (aw *ActivityWeights) Normalize() {
	sum := aw.Volume + aw.OpenInterest
	if sum > 0 {
		aw.Volume /= sum
		aw.OpenInterest /= sum
	}
}

// FamilySpec describes how one futures family's generic series are
// built: which ranking criterion applies, how many slots are kept, and
// how slot labels are formed (family code + prefix + rank, e.g. IFc1
// or Pv2).
type FamilySpec struct {
	Family     string          `json:"family"`
	Criterion  Criterion       `json:"criterion"`
	SlotPrefix string          `json:"slot_prefix"`
	Depth      int             `json:"depth"`
	Weights    ActivityWeights `json:"weights"`
}

// SlotName returns the label of the generic slot at the given rank.
func (fs FamilySpec) SlotName(rank int) string {
	return fmt.Sprintf("%s%s%d", fs.Family, fs.SlotPrefix, rank)
}

// Validate checks the spec and reports the first offending field.
func (fs FamilySpec) Validate() error {
	if fs.Family == "" {
		return ValidationError{Field: "family", Message: "family code must not be empty"}
	}
	if !fs.Criterion.IsValid() {
		return ValidationError{Field: "criterion", Message: "unknown ranking criterion", Value: string(fs.Criterion)}
	}
	if fs.SlotPrefix == "" {
		return ValidationError{Field: "slot_prefix", Message: "slot prefix must not be empty"}
	}
	if fs.Depth < 1 {
		return ValidationError{Field: "depth", Message: "depth must be at least 1", Value: fs.Depth}
	}
	if fs.Criterion == CriterionComposite && !fs.Weights.IsValid() {
		return ValidationError{Field: "weights", Message: "composite weights must be non-negative and sum to 1"}
	}
	return nil
}

// RankedContract pairs a contract record with its rank and the score
// that produced it. Score is the activity measure for activity
// criteria and zero for the calendar criterion, where the delist date
// itself is the ordering key.
type RankedContract struct {
	Record domain.ContractRecord `json:"record"`
	Rank   int                   `json:"rank"`
	Score  float64               `json:"score"`
}

// RawPoint is one day of a slot's realized series before adjustment.
type RawPoint struct {
	Day        time.Time `json:"day"`
	ContractID string    `json:"contract_id"`
	Close      float64   `json:"close"`
}

// Result bundles every table produced while building one family's
// generic series.
type Result struct {
	Family      string                      `json:"family"`
	Assignments []domain.SlotAssignment     `json:"assignments"`
	Rolls       []domain.RollEvent          `json:"rolls"`
	Points      []domain.AdjustedPricePoint `json:"points"`
	Diagnostics []domain.Diagnostic         `json:"diagnostics"`
}

// Constants for default values
const (
	// DefaultDepth is the number of generic slots kept per family
	DefaultDepth = 3

	// DefaultBuildTimeout bounds a single family build
	DefaultBuildTimeout = 30 * time.Second
)

// ValidationError represents validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

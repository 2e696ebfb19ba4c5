package domain

import (
	"time"
)

// SlotAssignment records which concrete contract stood behind a generic
// slot on a single trading day.
type SlotAssignment struct {
	Family     string    `json:"family" validate:"required"`
	Slot       string    `json:"slot" validate:"required"`
	Day        time.Time `json:"day" validate:"required"`
	ContractID string    `json:"contract_id" validate:"required"`
	Rank       int       `json:"rank" validate:"min=1"`
}

// RollEvent marks the first day a slot was mapped to a new contract.
// The initial assignment of a slot is recorded as a roll with an empty
// FromID; it opens the first segment but carries no price pair.
type RollEvent struct {
	Family    string    `json:"family" validate:"required"`
	Slot      string    `json:"slot" validate:"required"`
	Day       time.Time `json:"day" validate:"required"`
	FromID    string    `json:"from_contract,omitempty"`
	ToID      string    `json:"to_contract" validate:"required"`
	PriceFrom float64   `json:"price_from"`
	PriceTo   float64   `json:"price_to"`
	Forced    bool      `json:"forced"`
}

// Initial reports whether the event is the slot's first assignment
// rather than a transition between two contracts.
func (e RollEvent) Initial() bool {
	return e.FromID == ""
}

// AdjustedPricePoint is one day of a continuous series after
// back-adjustment. RawClose is the underlying contract's close as
// recorded; AdjustedClose is the spliced value with roll jumps removed.
// The factor of the live segment is exactly 1, so its adjusted closes
// equal the raw ones.
type AdjustedPricePoint struct {
	Family        string    `json:"family" validate:"required"`
	Slot          string    `json:"slot" validate:"required"`
	Day           time.Time `json:"day" validate:"required"`
	ContractID    string    `json:"contract_id" validate:"required"`
	RawClose      float64   `json:"raw_close"`
	AdjustedClose float64   `json:"adjusted_close"`
	Factor        float64   `json:"factor"`
	Unadjusted    bool      `json:"unadjusted,omitempty"`
}

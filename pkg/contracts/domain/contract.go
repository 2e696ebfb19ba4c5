package domain

import (
	"time"
)

// ContractRecord represents a single futures contract's quote for one
// trading day, joined with the contract's listing reference data.
// This is the primary input structure for continuous series construction.
type ContractRecord struct {
	Family       string    `json:"family" validate:"required"`
	ContractID   string    `json:"contract_id" validate:"required"`
	Day          time.Time `json:"day" validate:"required"`
	ListDate     time.Time `json:"list_date"`
	DelistDate   time.Time `json:"delist_date" validate:"required"`
	Open         float64   `json:"open" validate:"min=0"`
	High         float64   `json:"high" validate:"min=0"`
	Low          float64   `json:"low" validate:"min=0"`
	Close        float64   `json:"close" validate:"min=0"`
	Settle       float64   `json:"settle" validate:"min=0"`
	PreClose     float64   `json:"pre_close" validate:"min=0"`
	PreSettle    float64   `json:"pre_settle" validate:"min=0"`
	Volume       float64   `json:"volume" validate:"min=0"`
	Amount       float64   `json:"amount" validate:"min=0"`
	OpenInterest float64   `json:"open_interest" validate:"min=0"`
}

// Delisted reports whether the contract can no longer trade on the given
// day. Quotes exist only for days strictly before the delist date, so the
// delist date itself is the first day the contract is out of the universe.
func (c ContractRecord) Delisted(day time.Time) bool {
	return !day.Before(c.DelistDate)
}

// HasQuote reports whether the record carries a usable closing price.
// Zero closes appear in exchange files for suspended or never-traded
// contracts and cannot anchor a roll ratio.
func (c ContractRecord) HasQuote() bool {
	return c.Close > 0
}

// ContractMeta holds the reference entry for one listed contract.
type ContractMeta struct {
	Family     string    `json:"family" validate:"required"`
	ContractID string    `json:"contract_id" validate:"required"`
	ListDate   time.Time `json:"list_date"`
	DelistDate time.Time `json:"delist_date" validate:"required"`
}

package universe

import (
	"fmt"
	"strings"
	"time"

	"futurescli/pkg/contracts/domain"
)

// ReferenceRow mirrors one line of the contract reference file. Dates
// stay as strings until conversion because the feed writes them as
// YYYYMMDD integers.
type ReferenceRow struct {
	TsCode     string `csv:"ts_code"`
	FutCode    string `csv:"fut_code"`
	ListDate   string `csv:"list_date"`
	DelistDate string `csv:"delist_date"`
}

// ToMeta converts the row to the domain reference entry.
func (r ReferenceRow) ToMeta() (domain.ContractMeta, error) {
	list, err := parseDay(r.ListDate)
	if err != nil {
		return domain.ContractMeta{}, fmt.Errorf("list date of %s: %w", r.TsCode, err)
	}
	delist, err := parseDay(r.DelistDate)
	if err != nil {
		return domain.ContractMeta{}, fmt.Errorf("delist date of %s: %w", r.TsCode, err)
	}

	return domain.ContractMeta{
		Family:     r.FutCode,
		ContractID: r.TsCode,
		ListDate:   list,
		DelistDate: delist,
	}, nil
}

// PriceRow mirrors one line of the daily market data file.
type PriceRow struct {
	TsCode       string  `csv:"ts_code"`
	TradeDate    string  `csv:"trade_date"`
	PreClose     float64 `csv:"pre_close"`
	PreSettle    float64 `csv:"pre_settle"`
	Open         float64 `csv:"open"`
	High         float64 `csv:"high"`
	Low          float64 `csv:"low"`
	Close        float64 `csv:"close"`
	Settle       float64 `csv:"settle"`
	Volume       float64 `csv:"vol"`
	Amount       float64 `csv:"amount"`
	OpenInterest float64 `csv:"oi"`
}

// ToRecord joins the price row with its reference entry.
func (r PriceRow) ToRecord(meta domain.ContractMeta) (domain.ContractRecord, error) {
	day, err := parseDay(r.TradeDate)
	if err != nil {
		return domain.ContractRecord{}, fmt.Errorf("trade date of %s: %w", r.TsCode, err)
	}

	return domain.ContractRecord{
		Family:       meta.Family,
		ContractID:   r.TsCode,
		Day:          day,
		ListDate:     meta.ListDate,
		DelistDate:   meta.DelistDate,
		Open:         r.Open,
		High:         r.High,
		Low:          r.Low,
		Close:        r.Close,
		Settle:       r.Settle,
		PreClose:     r.PreClose,
		PreSettle:    r.PreSettle,
		Volume:       r.Volume,
		Amount:       r.Amount,
		OpenInterest: r.OpenInterest,
	}, nil
}

// parseDay reads the feed's YYYYMMDD date encoding, accepting ISO
// dates as a fallback for hand-edited files.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("20060102", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

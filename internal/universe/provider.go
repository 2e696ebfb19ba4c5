// Package universe loads the raw futures universe: contract reference
// data joined with daily quotes, filtered to each contract's listing
// window. The series engine only ever sees records this package has
// admitted.
package universe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"

	"futurescli/pkg/contracts/domain"
)

// Provider supplies the contract records a series build runs on.
type Provider interface {
	// Records returns the day-level records of one family (or of all
	// families when family is empty), restricted to [from, to] when
	// those bounds are set. Records outside a contract's listing
	// window are never returned.
	Records(ctx context.Context, family string, from, to time.Time) ([]domain.ContractRecord, error)
}

// CSVProvider reads the two-file universe layout: a reference CSV
// (ts_code, fut_code, list_date, delist_date) and a daily price CSV
// keyed by ts_code and trade_date.
type CSVProvider struct {
	refPath   string
	pricePath string
	logger    *slog.Logger
	validate  *validator.Validate
}

// NewCSVProvider creates a provider over the given reference and price
// files.
func NewCSVProvider(refPath, pricePath string, logger *slog.Logger) *CSVProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVProvider{
		refPath:   refPath,
		pricePath: pricePath,
		logger:    logger,
		validate:  validator.New(),
	}
}

// Records implements Provider.
func (p *CSVProvider) Records(ctx context.Context, family string, from, to time.Time) ([]domain.ContractRecord, error) {
	start := time.Now()

	metas, err := p.loadReference()
	if err != nil {
		return nil, err
	}
	prices, err := p.loadPrices()
	if err != nil {
		return nil, err
	}

	var records []domain.ContractRecord
	var unmatched, outsideWindow int
	for _, row := range prices {
		meta, ok := metas[row.TsCode]
		if !ok {
			unmatched++
			continue
		}
		if family != "" && meta.Family != family {
			continue
		}

		rec, err := row.ToRecord(meta)
		if err != nil {
			return nil, &MalformedInputError{File: p.pricePath, Row: row.TsCode, Reason: "unreadable trade date", Err: err}
		}
		if rec.Day.Before(rec.ListDate) || rec.Delisted(rec.Day) {
			outsideWindow++
			continue
		}
		if !from.IsZero() && rec.Day.Before(from) {
			continue
		}
		if !to.IsZero() && rec.Day.After(to) {
			continue
		}
		if err := p.validate.Struct(rec); err != nil {
			return nil, &MalformedInputError{
				File:   p.pricePath,
				Row:    fmt.Sprintf("%s@%s", row.TsCode, row.TradeDate),
				Reason: "record fails validation",
				Err:    err,
			}
		}

		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].Day.Equal(records[j].Day) {
			return records[i].Day.Before(records[j].Day)
		}
		return records[i].ContractID < records[j].ContractID
	})

	if unmatched > 0 {
		p.logger.WarnContext(ctx, "price rows without reference entry skipped",
			"file", p.pricePath,
			"count", unmatched,
		)
	}
	if outsideWindow > 0 {
		p.logger.WarnContext(ctx, "quotes outside listing window skipped",
			"file", p.pricePath,
			"count", outsideWindow,
		)
	}
	p.logger.InfoContext(ctx, "universe loaded",
		"family", family,
		"records", len(records),
		"contracts", len(metas),
		"duration", time.Since(start),
	)

	return records, nil
}

// loadReference reads the reference file into a lookup by contract id.
func (p *CSVProvider) loadReference() (map[string]domain.ContractMeta, error) {
	f, err := os.Open(p.refPath)
	if err != nil {
		return nil, fmt.Errorf("open reference file: %w", err)
	}
	defer f.Close()

	var rows []ReferenceRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, &MalformedInputError{File: p.refPath, Reason: "unreadable reference csv", Err: err}
	}

	metas := make(map[string]domain.ContractMeta, len(rows))
	for _, row := range rows {
		meta, err := row.ToMeta()
		if err != nil {
			return nil, &MalformedInputError{File: p.refPath, Row: row.TsCode, Reason: "unreadable listing dates", Err: err}
		}
		if err := p.validate.Struct(meta); err != nil {
			return nil, &MalformedInputError{File: p.refPath, Row: row.TsCode, Reason: "reference entry fails validation", Err: err}
		}
		metas[meta.ContractID] = meta
	}
	return metas, nil
}

// loadPrices reads the daily market data file.
func (p *CSVProvider) loadPrices() ([]PriceRow, error) {
	f, err := os.Open(p.pricePath)
	if err != nil {
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	var rows []PriceRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, &MalformedInputError{File: p.pricePath, Reason: "unreadable price csv", Err: err}
	}
	return rows, nil
}

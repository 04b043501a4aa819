package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"jax-backtest/internal/marketdata"
)

// CSVProvider serves bars from per-ticker CSV fixtures laid out as
// <dir>/<ticker>.csv with columns datetime,open,high,low,close,volume.
// Used for tests and offline runs where hitting a real HTTP source isn't
// appropriate.
type CSVProvider struct {
	dir string
}

// NewCSVProvider returns a CSVProvider reading fixtures from dir.
func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{dir: dir}
}

// Fetch satisfies marketdata.DataProvider by reading the ticker's fixture
// file and filtering to [start, end]. Resolution is ignored: fixtures are
// pre-sampled to whatever granularity the test needs.
func (p *CSVProvider) Fetch(_ context.Context, ticker string, start, end time.Time, _ marketdata.Resolution) ([]marketdata.Aggregate, error) {
	path := fmt.Sprintf("%s/%s.csv", p.dir, ticker)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("provider: open fixture %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	var out []marketdata.Aggregate
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("provider: read fixture %s: %w", path, err)
		}
		if len(record) != 6 {
			return nil, fmt.Errorf("provider: fixture %s: expected 6 columns, got %d", path, len(record))
		}

		agg, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("provider: fixture %s: %w", path, err)
		}
		if agg.Datetime.Before(start) || agg.Datetime.After(end) {
			continue
		}
		out = append(out, agg)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out, nil
}

func parseRow(record []string) (marketdata.Aggregate, error) {
	dt, err := time.Parse(time.RFC3339, record[0])
	if err != nil {
		return marketdata.Aggregate{}, fmt.Errorf("parse datetime %q: %w", record[0], err)
	}

	prices := make([]decimal.Decimal, 5)
	for i, field := range record[1:] {
		val, err := decimal.NewFromString(field)
		if err != nil {
			return marketdata.Aggregate{}, fmt.Errorf("parse column %d (%q): %w", i+1, field, err)
		}
		prices[i] = val
	}

	return marketdata.Aggregate{
		Datetime: dt,
		Open:     prices[0],
		High:     prices[1],
		Low:      prices[2],
		Close:    prices[3],
		Volume:   prices[4],
	}, nil
}

// Package marketdata implements the DataCache and DataManager: an
// in-memory, time-ordered per-ticker store and the job-planning layer that
// keeps it fed from a DataProvider.
package marketdata

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Aggregate is a single OHLCV bar.
type Aggregate struct {
	Datetime time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   decimal.Decimal
}

// Resolution is the bar granularity a simulation run is configured with.
type Resolution int

const (
	Day Resolution = iota
	Minute
)

// DataProvider is the external capability the DataManager fetches bars
// from. Concrete adapters (HTTP, CSV fixtures) live outside this package.
type DataProvider interface {
	Fetch(ctx context.Context, ticker string, start, end time.Time, resolution Resolution) ([]Aggregate, error)
}

// Package market implements the read-only Market service (C8): a thin,
// query-only wrapper combining the Clock's session state machine with the
// DataManager's price lookups. Market holds no back-reference to the
// Brokerage; the Simulator wires both together by passing handles.
package market

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"jax-backtest/internal/clock"
	"jax-backtest/internal/marketdata"
)

// Market exposes the datetime/state/price surface that Strategy callbacks
// and the Brokerage consume.
type Market struct {
	ctx     context.Context
	clock   *clock.Clock
	manager *marketdata.Manager
}

// New wraps clk and manager into a Market. ctx bounds any on-demand fetch
// the manager performs while answering a query.
func New(ctx context.Context, clk *clock.Clock, manager *marketdata.Manager) *Market {
	return &Market{ctx: ctx, clock: clk, manager: manager}
}

func (m *Market) Datetime() time.Time         { return m.clock.Datetime() }
func (m *Market) PreviousDatetime() time.Time { return m.clock.PreviousDatetime() }
func (m *Market) NextDatetime() time.Time     { return m.clock.NextDatetime() }
func (m *Market) State() clock.MarketState    { return m.clock.State() }
func (m *Market) IsOpen() bool                { return m.clock.IsOpen() }
func (m *Market) IsDone() bool                { return m.clock.IsDone() }

// GetOpen returns the opening price of the bar at the current datetime.
func (m *Market) GetOpen(ticker string) (decimal.Decimal, bool) {
	agg, ok := m.manager.At(m.ctx, ticker, m.clock.Datetime())
	if !ok {
		return decimal.Zero, false
	}
	return agg.Open, true
}

// GetCurrentPrice returns the close of the last-at-or-before bar at the
// current datetime.
func (m *Market) GetCurrentPrice(ticker string) (decimal.Decimal, bool) {
	agg, ok := m.manager.GetLastBefore(m.ctx, ticker, m.clock.Datetime())
	if !ok {
		return decimal.Zero, false
	}
	return agg.Close, true
}

// GetLastPrice returns the close of the bar at the previous datetime.
func (m *Market) GetLastPrice(ticker string) (decimal.Decimal, bool) {
	agg, ok := m.manager.GetLastBefore(m.ctx, ticker, m.clock.PreviousDatetime())
	if !ok {
		return decimal.Zero, false
	}
	return agg.Close, true
}

// GetData returns the inclusive bar range [t0, t1] for ticker.
func (m *Market) GetData(ticker string, t0, t1 time.Time) ([]marketdata.Aggregate, bool) {
	return m.manager.GetRange(m.ctx, ticker, t0, t1)
}

// Tick advances the underlying Clock by one step.
func (m *Market) Tick() {
	m.clock.Tick()
}

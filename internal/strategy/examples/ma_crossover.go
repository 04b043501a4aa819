// Package examples ships demo Strategy implementations exercising the
// callback contract end to end. They are not part of the core contract
// (spec's user strategies are out of scope); they exist to give the
// indicator-driven strategy style a home and a working reference.
package examples

import (
	"github.com/shopspring/decimal"

	"jax-backtest/internal/brokerage"
	"jax-backtest/internal/market"
	"jax-backtest/internal/strategy"
)

// MACrossover goes long when the fast simple moving average crosses above
// the slow one, and flat when it crosses below.
type MACrossover struct {
	strategy.Base

	Ticker      string
	FastPeriod  int
	SlowPeriod  int
	OrderShares decimal.Decimal

	prices  []decimal.Decimal
	holding bool
}

// NewMACrossover returns a MACrossover configured with the given periods
// and order size.
func NewMACrossover(ticker string, fast, slow int, shares decimal.Decimal) *MACrossover {
	return &MACrossover{Ticker: ticker, FastPeriod: fast, SlowPeriod: slow, OrderShares: shares}
}

func (s *MACrossover) DuringRegularHours(b *brokerage.Brokerage, m *market.Market) error {
	price, ok := m.GetCurrentPrice(s.Ticker)
	if !ok {
		return nil
	}
	s.prices = append(s.prices, price)
	if len(s.prices) < s.SlowPeriod {
		return nil
	}

	fast := sma(s.prices, s.FastPeriod)
	slow := sma(s.prices, s.SlowPeriod)

	switch {
	case fast.GreaterThan(slow) && !s.holding:
		b.SendOrder(brokerage.NewOrder(s.Ticker, s.OrderShares))
		s.holding = true
	case fast.LessThan(slow) && s.holding:
		b.SendOrder(brokerage.NewOrder(s.Ticker, s.OrderShares.Neg()))
		s.holding = false
	}
	return nil
}

// sma is the mean of the last n prices.
func sma(prices []decimal.Decimal, n int) decimal.Decimal {
	window := prices[len(prices)-n:]
	sum := decimal.Zero
	for _, p := range window {
		sum = sum.Add(p)
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}

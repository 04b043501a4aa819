// Package commission implements the Commission plug-in contract consumed
// by the brokerage service: a single-method capability computing the
// non-negative cost of a fill.
package commission

import (
	"github.com/shopspring/decimal"

	"jax-backtest/internal/ledger"
)

// Calculator computes the commission due on a fill. Implementations must
// always return a non-negative amount.
type Calculator interface {
	Calculate(lot ledger.Lot) decimal.Decimal
}

// None charges no commission.
type None struct{}

func (None) Calculate(ledger.Lot) decimal.Decimal { return decimal.Zero }

// PerShare charges rate per share traded, with an optional minimum.
type PerShare struct {
	Rate decimal.Decimal
	Min  decimal.Decimal // zero means no minimum
}

func (c PerShare) Calculate(lot ledger.Lot) decimal.Decimal {
	charge := c.Rate.Mul(lot.Quantity.Abs())
	return decimal.Max(charge, c.Min)
}

// PerOrder charges a flat amount per fill regardless of size.
type PerOrder struct {
	Amount decimal.Decimal
}

func (c PerOrder) Calculate(ledger.Lot) decimal.Decimal { return c.Amount }

// PerDollar charges rate times the dollar value traded, with an optional
// minimum.
type PerDollar struct {
	Rate decimal.Decimal
	Min  decimal.Decimal
}

func (c PerDollar) Calculate(lot ledger.Lot) decimal.Decimal {
	charge := c.Rate.Mul(lot.Quantity.Abs()).Mul(lot.Price)
	return decimal.Max(charge, c.Min)
}

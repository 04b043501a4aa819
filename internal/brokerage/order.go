// Package brokerage implements the Order value type and the Brokerage
// simulator: order submission, FIFO-backed fills, active-order
// reconciliation, expiry, and the broadcast event stream.
package brokerage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderKind distinguishes the four order types the marketability matrix
// covers.
type OrderKind int

const (
	Market OrderKind = iota
	Limit
	Stop
	StopLimit
)

// Order is an identity, a signed share count, and a type-specific
// marketability test. Shares are rounded to 8dp on construction.
type Order struct {
	ID         uuid.UUID
	Ticker     string
	Shares     decimal.Decimal
	Kind       OrderKind
	StopPrice  decimal.Decimal
	LimitPrice decimal.Decimal
}

// NewOrder builds a Market order for ticker and shares (positive buys,
// negative sells).
func NewOrder(ticker string, shares decimal.Decimal) Order {
	return Order{
		ID:     uuid.New(),
		Ticker: ticker,
		Shares: shares.Round(8),
		Kind:   Market,
	}
}

// WithLimit upgrades the order to Limit (from Market/Limit) or StopLimit
// (from Stop/StopLimit), idempotently.
func (o Order) WithLimit(price decimal.Decimal) Order {
	switch o.Kind {
	case Market, Limit:
		o.Kind = Limit
	default:
		o.Kind = StopLimit
	}
	o.LimitPrice = price
	return o
}

// WithStop upgrades the order to Stop (from Market/Stop) or StopLimit (from
// Limit/StopLimit), idempotently.
func (o Order) WithStop(price decimal.Decimal) Order {
	switch o.Kind {
	case Market, Stop:
		o.Kind = Stop
	default:
		o.Kind = StopLimit
	}
	o.StopPrice = price
	return o
}

// IsMarketable reports whether the order's conditions are satisfied by
// price, so it can fill immediately. The StopLimit OR semantics below
// (stop trigger OR limit match, rather than stop-then-limit) is an
// observable design decision preserved deliberately, not a bug.
func (o Order) IsMarketable(price decimal.Decimal) bool {
	buy := o.Shares.Sign() > 0

	switch o.Kind {
	case Market:
		return true
	case Limit:
		if buy {
			return o.LimitPrice.GreaterThanOrEqual(price)
		}
		return o.LimitPrice.LessThanOrEqual(price)
	case Stop:
		if buy {
			return o.StopPrice.LessThanOrEqual(price)
		}
		return o.StopPrice.GreaterThanOrEqual(price)
	case StopLimit:
		if buy {
			return o.StopPrice.LessThanOrEqual(price) || o.LimitPrice.GreaterThanOrEqual(price)
		}
		return o.StopPrice.GreaterThanOrEqual(price) || o.LimitPrice.LessThanOrEqual(price)
	default:
		panic("brokerage: unknown order kind")
	}
}

// StatusKind is the order lifecycle phase.
type StatusKind int

const (
	Submitted StatusKind = iota
	Cancelled
	Filled
	// PartiallyFilled is reserved: the brokerage never constructs it, and
	// stats.Statistics.Record panics if it receives an order update with
	// this status.
	PartiallyFilled
	Rejected
	Expired
)

// OrderStatus is the full lifecycle status of an order, including the
// fill details when Kind == Filled.
type OrderStatus struct {
	Kind             StatusKind
	FillTime         time.Time
	AverageFillPrice decimal.Decimal
}

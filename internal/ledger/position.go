package ledger

import "github.com/shopspring/decimal"

// Position is a per-symbol FIFO lot book.
type Position struct {
	Ticker string
	lots   []Lot
}

// NewPosition creates a position for ticker seeded with a first lot.
func NewPosition(ticker string, lot Lot) *Position {
	return &Position{Ticker: ticker, lots: []Lot{lot}}
}

// AddLot applies the FIFO lot-disposal rule: a same-sign (or
// position-is-empty) lot is appended; an opposing-sign lot consumes the
// oldest lots first, flipping the position's sign if it exceeds them.
func (p *Position) AddLot(newLot Lot) {
	currentSign := p.Quantity().Sign()
	newSign := newLot.Quantity.Sign()

	if currentSign*newSign >= 0 {
		p.lots = append(p.lots, newLot)
		return
	}

	unaccounted := newLot.Quantity
	for !unaccounted.IsZero() {
		if len(p.lots) == 0 {
			p.lots = append(p.lots, Lot{
				FillTime: newLot.FillTime,
				Price:    newLot.Price,
				Quantity: unaccounted,
			})
			unaccounted = decimal.Zero
			break
		}

		front := p.lots[0]
		if front.Quantity.Abs().GreaterThan(unaccounted.Abs()) {
			front.Quantity = front.Quantity.Add(unaccounted)
			p.lots[0] = front
			unaccounted = decimal.Zero
		} else {
			p.lots = p.lots[1:]
			unaccounted = unaccounted.Add(front.Quantity)
		}
	}
}

// Quantity is the net signed share count across all lots.
func (p *Position) Quantity() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.lots {
		total = total.Add(l.Quantity)
	}
	return total
}

// CostBasis is the sum of quantity*price across all lots.
func (p *Position) CostBasis() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.lots {
		total = total.Add(l.Quantity.Mul(l.Price))
	}
	return total
}

// AveragePrice is CostBasis/Quantity, rounded to 8dp. The second return
// value is false when Quantity is zero, in which case average price is
// undefined.
func (p *Position) AveragePrice() (decimal.Decimal, bool) {
	qty := p.Quantity()
	if qty.IsZero() {
		return decimal.Zero, false
	}
	return p.CostBasis().Div(qty).Round(8), true
}

// MarketValue is Quantity * price.
func (p *Position) MarketValue(price decimal.Decimal) decimal.Decimal {
	return p.Quantity().Mul(price)
}

// UnrealizedPnL is MarketValue(price) - CostBasis.
func (p *Position) UnrealizedPnL(price decimal.Decimal) decimal.Decimal {
	return p.MarketValue(price).Sub(p.CostBasis())
}

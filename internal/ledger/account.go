package ledger

import "github.com/shopspring/decimal"

// Account holds starting cash, current cash, and a ticker -> Position
// mapping. The active/inactive order archive is kept on the Brokerage, not
// here.
type Account struct {
	StartingCash decimal.Decimal
	Cash         decimal.Decimal
	Positions    map[string]*Position
}

// NewAccount creates an account funded with startingCash.
func NewAccount(startingCash decimal.Decimal) *Account {
	return &Account{
		StartingCash: startingCash,
		Cash:         startingCash,
		Positions:    make(map[string]*Position),
	}
}

// AddLot debits cash by price*quantity and upserts the ticker's position.
func (a *Account) AddLot(ticker string, lot Lot) {
	a.Cash = a.Cash.Sub(lot.Price.Mul(lot.Quantity))

	if pos, ok := a.Positions[ticker]; ok {
		pos.AddLot(lot)
		return
	}
	a.Positions[ticker] = NewPosition(ticker, lot)
}

// MarketValue is position.quantity * price, or zero if ticker is unknown.
func (a *Account) MarketValue(ticker string, price decimal.Decimal) decimal.Decimal {
	pos, ok := a.Positions[ticker]
	if !ok {
		return decimal.Zero
	}
	return pos.Quantity().Mul(price)
}

// Reset returns the account to its starting cash and clears all positions.
func (a *Account) Reset() {
	a.Cash = a.StartingCash
	a.Positions = make(map[string]*Position)
}

// NonEmptyPositions returns positions with non-zero quantity, filtering out
// closed positions that may still linger in the map as empty entries.
func (a *Account) NonEmptyPositions() []*Position {
	out := make([]*Position, 0, len(a.Positions))
	for _, pos := range a.Positions {
		if !pos.Quantity().IsZero() {
			out = append(out, pos)
		}
	}
	return out
}

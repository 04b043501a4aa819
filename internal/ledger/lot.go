// Package ledger implements the per-symbol FIFO lot book (Position) and the
// account-level cash and position bookkeeping (Account).
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot is a single fill contributing to a position: its fill time, price,
// and signed quantity.
type Lot struct {
	FillTime time.Time
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

package brokerage

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind distinguishes the two event variants the brokerage emits.
type EventKind int

const (
	EventCommission EventKind = iota
	EventOrderUpdate
)

// Event is a Commission or OrderUpdate notification. Events are totally
// ordered by emission sequence; Time is the simulation clock at emission.
type Event struct {
	Kind   EventKind
	Amount decimal.Decimal // valid when Kind == EventCommission
	Status OrderStatus     // valid when Kind == EventOrderUpdate
	Time   time.Time       // valid when Kind == EventOrderUpdate
	Order  Order           // valid when Kind == EventOrderUpdate
}

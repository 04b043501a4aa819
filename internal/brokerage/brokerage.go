package brokerage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"jax-backtest/internal/commission"
	"jax-backtest/internal/ledger"
	"jax-backtest/internal/slippage"
)

// MarketView is the subset of the Market service the Brokerage consumes.
// It holds no back-reference to the Brokerage; the Simulator wires the two
// together by passing handles, avoiding a cyclic dependency.
type MarketView interface {
	Datetime() time.Time
	IsOpen() bool
	GetCurrentPrice(ticker string) (decimal.Decimal, bool)
}

// Brokerage owns the Account, processes orders, reconciles active orders
// against current prices, and broadcasts lifecycle events to subscribers.
//
// The active/inactive order archive lives on the Brokerage rather than on
// ledger.Account: Order is defined in this package (C7), and ledger (C5/C6)
// must not import it back, so the order lists are tracked here instead of
// folded into the Account value.
type Brokerage struct {
	account        *ledger.Account
	market         MarketView
	commission     commission.Calculator
	slippage       slippage.Model
	activeOrders   []Order
	inactiveOrders []Order
	listeners      []chan Event
}

// New constructs a Brokerage over account, driven by market, charging
// commission (slippage is stored but never invoked - see the package doc
// on the slippage package for why).
func New(account *ledger.Account, market MarketView, comm commission.Calculator, slip slippage.Model) *Brokerage {
	if comm == nil {
		comm = commission.None{}
	}
	if slip == nil {
		slip = slippage.NoSlippage{}
	}
	return &Brokerage{account: account, market: market, commission: comm, slippage: slip}
}

// Account exposes the underlying account for read access (equity/report
// tooling); it is mutated exclusively through Brokerage methods.
func (b *Brokerage) Account() *ledger.Account { return b.account }

// ActiveOrders returns a snapshot of orders still awaiting a fill.
func (b *Brokerage) ActiveOrders() []Order {
	out := make([]Order, len(b.activeOrders))
	copy(out, b.activeOrders)
	return out
}

// InactiveOrders returns a snapshot of the archived (terminal-status) orders.
func (b *Brokerage) InactiveOrders() []Order {
	out := make([]Order, len(b.inactiveOrders))
	copy(out, b.inactiveOrders)
	return out
}

// Subscribe returns a new receiver of the broadcast event stream. The
// channel buffers 256 events, so a tick's events wait there until the
// Simulator drains them; emitting blocks once 256 events are undrained.
func (b *Brokerage) Subscribe() <-chan Event {
	ch := make(chan Event, 256)
	b.listeners = append(b.listeners, ch)
	return ch
}

func (b *Brokerage) emit(event Event) {
	for _, ch := range b.listeners {
		ch <- event
	}
}

// SendOrder is the strategy-facing entry point: rejects outright when the
// market is closed, otherwise submits the order and fills it immediately
// if already marketable at the current price.
func (b *Brokerage) SendOrder(order Order) {
	if !b.market.IsOpen() {
		b.rejectOrder(order)
		return
	}

	b.saveOrder(order)
	price, ok := b.market.GetCurrentPrice(order.Ticker)
	if ok && order.IsMarketable(price) {
		b.fill(order, price)
	}
}

func (b *Brokerage) saveOrder(order Order) {
	b.activeOrders = append(b.activeOrders, order)
	b.emit(Event{
		Kind:   EventOrderUpdate,
		Status: OrderStatus{Kind: Submitted},
		Time:   b.market.Datetime(),
		Order:  order,
	})
}

func (b *Brokerage) rejectOrder(order Order) {
	b.inactiveOrders = append(b.inactiveOrders, order)
	b.emit(Event{
		Kind:   EventOrderUpdate,
		Status: OrderStatus{Kind: Rejected},
		Time:   b.market.Datetime(),
		Order:  order,
	})
}

func (b *Brokerage) expireOrder(order Order) {
	b.inactiveOrders = append(b.inactiveOrders, order)
	b.emit(Event{
		Kind:   EventOrderUpdate,
		Status: OrderStatus{Kind: Expired},
		Time:   b.market.Datetime(),
		Order:  order,
	})
}

// fill constructs the lot, charges commission, moves the order from active
// to inactive, and emits Filled then (if nonzero) Commission - in that
// order, so a single send_order call is totally ordered.
func (b *Brokerage) fill(order Order, price decimal.Decimal) {
	fillTime := b.market.Datetime()
	lot := ledger.Lot{FillTime: fillTime, Price: price, Quantity: order.Shares}

	charge := b.commission.Calculate(lot)
	b.account.AddLot(order.Ticker, lot)
	b.account.Cash = b.account.Cash.Sub(charge)

	b.inactiveOrders = append(b.inactiveOrders, order)
	b.removeActiveOrder(order.ID)

	b.emit(Event{
		Kind:   EventOrderUpdate,
		Status: OrderStatus{Kind: Filled, FillTime: fillTime, AverageFillPrice: price},
		Time:   fillTime,
		Order:  order,
	})
	if !charge.IsZero() {
		b.emit(Event{Kind: EventCommission, Amount: charge})
	}
}

func (b *Brokerage) removeActiveOrder(id uuid.UUID) {
	for i, o := range b.activeOrders {
		if o.ID == id {
			b.activeOrders = append(b.activeOrders[:i], b.activeOrders[i+1:]...)
			return
		}
	}
}

// GetPositions returns a snapshot of non-empty positions, filtering
// zero-quantity entries defensively.
func (b *Brokerage) GetPositions() []*ledger.Position {
	return b.account.NonEmptyPositions()
}

// GetEquity is cash plus the market value of every position at its
// current price; missing prices contribute zero.
func (b *Brokerage) GetEquity() decimal.Decimal {
	equity := b.account.Cash
	for ticker, pos := range b.account.Positions {
		price, ok := b.market.GetCurrentPrice(ticker)
		if !ok {
			continue
		}
		equity = equity.Add(pos.MarketValue(price))
	}
	return equity
}

// ClosePositions sends a market order for -quantity on every position with
// non-zero quantity.
func (b *Brokerage) ClosePositions() {
	var orders []Order
	for ticker, pos := range b.account.Positions {
		qty := pos.Quantity()
		if qty.IsZero() {
			continue
		}
		orders = append(orders, NewOrder(ticker, qty.Neg()))
	}
	for _, order := range orders {
		b.SendOrder(order)
	}
}

// ReconcileActiveOrders fills every active order whose ticker has a known
// current price it is marketable at.
func (b *Brokerage) ReconcileActiveOrders() {
	remaining := b.activeOrders[:0:0]
	type pending struct {
		order Order
		price decimal.Decimal
	}
	var toFill []pending
	for _, order := range b.activeOrders {
		price, ok := b.market.GetCurrentPrice(order.Ticker)
		if ok && order.IsMarketable(price) {
			toFill = append(toFill, pending{order, price})
			continue
		}
		remaining = append(remaining, order)
	}
	b.activeOrders = remaining
	for _, f := range toFill {
		b.fill(f.order, f.price)
	}
}

// ExpireOrders drains all active orders, moving each to inactive with
// status Expired.
func (b *Brokerage) ExpireOrders() {
	orders := b.activeOrders
	b.activeOrders = nil
	for _, order := range orders {
		b.expireOrder(order)
	}
}

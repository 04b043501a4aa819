// Package strategy defines the Strategy callback contract (C12): the
// surface a user-supplied trading strategy implements to react to the
// simulated session lifecycle and brokerage events.
package strategy

import (
	"jax-backtest/internal/brokerage"
	"jax-backtest/internal/market"
)

// Strategy is the callback surface the Simulator drives. Every method is
// optional; embed Base to get no-op defaults and override only what the
// strategy needs.
type Strategy interface {
	Initialize() error
	BeforeOpen(b *brokerage.Brokerage, m *market.Market) error
	AtOpen(b *brokerage.Brokerage, m *market.Market) error
	DuringRegularHours(b *brokerage.Brokerage, m *market.Market) error
	AtClose(b *brokerage.Brokerage, m *market.Market) error
	AfterClose(b *brokerage.Brokerage, m *market.Market) error
	OnEvent(event brokerage.Event) error
}

// Base implements every Strategy method as a no-op returning nil. Embed it
// in a concrete strategy and override only the callbacks it needs.
type Base struct{}

func (Base) Initialize() error                                                    { return nil }
func (Base) BeforeOpen(*brokerage.Brokerage, *market.Market) error                 { return nil }
func (Base) AtOpen(*brokerage.Brokerage, *market.Market) error                     { return nil }
func (Base) DuringRegularHours(*brokerage.Brokerage, *market.Market) error         { return nil }
func (Base) AtClose(*brokerage.Brokerage, *market.Market) error                   { return nil }
func (Base) AfterClose(*brokerage.Brokerage, *market.Market) error                { return nil }
func (Base) OnEvent(brokerage.Event) error                                        { return nil }

package examples

import (
	"github.com/shopspring/decimal"

	"jax-backtest/internal/brokerage"
	"jax-backtest/internal/market"
	"jax-backtest/internal/strategy"
)

// RSIMomentum buys while flat when RSI is below the oversold threshold and
// exits while holding when RSI is above the overbought threshold.
type RSIMomentum struct {
	strategy.Base

	Ticker      string
	Period      int
	Oversold    float64
	Overbought  float64
	OrderShares decimal.Decimal

	prices  []decimal.Decimal
	holding bool
}

// NewRSIMomentum returns an RSIMomentum configured with the given period,
// thresholds, and order size. Oversold/Overbought default to 30/70 when 0.
func NewRSIMomentum(ticker string, period int, oversold, overbought float64, shares decimal.Decimal) *RSIMomentum {
	if oversold == 0 {
		oversold = 30
	}
	if overbought == 0 {
		overbought = 70
	}
	return &RSIMomentum{Ticker: ticker, Period: period, Oversold: oversold, Overbought: overbought, OrderShares: shares}
}

func (s *RSIMomentum) DuringRegularHours(b *brokerage.Brokerage, m *market.Market) error {
	price, ok := m.GetCurrentPrice(s.Ticker)
	if !ok {
		return nil
	}
	s.prices = append(s.prices, price)
	if len(s.prices) < s.Period+1 {
		return nil
	}

	r := rsi(s.prices, s.Period)
	switch {
	case r < s.Oversold && !s.holding:
		b.SendOrder(brokerage.NewOrder(s.Ticker, s.OrderShares))
		s.holding = true
	case r > s.Overbought && s.holding:
		b.SendOrder(brokerage.NewOrder(s.Ticker, s.OrderShares.Neg()))
		s.holding = false
	}
	return nil
}

// rsi computes the relative strength index over the last period changes in
// prices, using plain averages of gains and losses (no Wilder smoothing).
func rsi(prices []decimal.Decimal, period int) float64 {
	window := prices[len(prices)-period-1:]
	var gainSum, lossSum float64
	for i := 1; i < len(window); i++ {
		delta, _ := window[i].Sub(window[i-1]).Float64()
		if delta >= 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

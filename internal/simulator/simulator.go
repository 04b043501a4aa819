// Package simulator implements the main replay loop (C10): it drives the
// Market's state machine, invokes the Strategy's callbacks, drains
// Brokerage events into the Strategy and the Statistics collector, and
// records equity once per tick.
package simulator

import (
	"fmt"

	"jax-backtest/internal/brokerage"
	"jax-backtest/internal/clock"
	"jax-backtest/internal/market"
	"jax-backtest/internal/stats"
	"jax-backtest/internal/strategy"
)

// Simulator owns the main loop wiring Market, Brokerage, Strategy, and
// Statistics together.
type Simulator struct {
	market     *market.Market
	brokerage  *brokerage.Brokerage
	strategy   strategy.Strategy
	statistics *stats.Statistics
}

// New constructs a Simulator over the given services.
func New(m *market.Market, b *brokerage.Brokerage, s strategy.Strategy, stat *stats.Statistics) *Simulator {
	return &Simulator{market: m, brokerage: b, strategy: s, statistics: stat}
}

// Run executes the main loop until the Market is done, then returns the
// final report. A non-nil error from any Strategy callback aborts the
// loop immediately and is returned; no report is produced in that case.
func (s *Simulator) Run(periodsPerYear float64) (stats.Report, error) {
	if err := s.strategy.Initialize(); err != nil {
		return stats.Report{}, fmt.Errorf("simulator: strategy initialize: %w", err)
	}
	events := s.brokerage.Subscribe()

	for !s.market.IsDone() {
		dt := s.market.Datetime()
		st := s.market.State()

		var err error
		switch st {
		case clock.PreOpen:
			err = s.strategy.BeforeOpen(s.brokerage, s.market)
		case clock.Opening:
			err = s.strategy.AtOpen(s.brokerage, s.market)
		case clock.Open:
			s.brokerage.ReconcileActiveOrders()
			err = s.strategy.DuringRegularHours(s.brokerage, s.market)
		case clock.Closing:
			err = s.strategy.AtClose(s.brokerage, s.market)
		case clock.Closed:
			s.brokerage.ExpireOrders()
			err = s.strategy.AfterClose(s.brokerage, s.market)
		}
		if err != nil {
			return stats.Report{}, fmt.Errorf("simulator: strategy callback at %s (%s): %w", dt, st, err)
		}

		if err := s.drainEvents(events); err != nil {
			return stats.Report{}, err
		}

		equity := s.brokerage.GetEquity()
		s.statistics.RecordEquity(dt, equity)

		s.market.Tick()
	}

	return s.statistics.EmitReport(periodsPerYear), nil
}

// drainEvents consumes every event currently buffered on the channel
// without blocking, feeding each to the strategy and the statistics
// collector in emission order.
func (s *Simulator) drainEvents(events <-chan brokerage.Event) error {
	for {
		select {
		case event := <-events:
			if err := s.strategy.OnEvent(event); err != nil {
				return fmt.Errorf("simulator: strategy on_event: %w", err)
			}
			s.statistics.Record(event)
		default:
			return nil
		}
	}
}

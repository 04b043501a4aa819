package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"jax-backtest/internal/brokerage"
	"jax-backtest/internal/calendar"
	"jax-backtest/internal/clock"
	"jax-backtest/internal/commission"
	"jax-backtest/internal/ledger"
	"jax-backtest/internal/market"
	"jax-backtest/internal/marketdata"
	"jax-backtest/internal/stats"
	"jax-backtest/internal/strategy"
	"jax-backtest/libs/testkit"
)

// TestSimulator_Run_IsDeterministic asserts the core promise of a
// historical backtest: the same configuration and fixture data produce
// the same statistics across repeated runs. Order IDs are intentionally
// excluded from the comparison: they are opaque per spec and assigned
// from a fresh random UUID on every construction, so they differ between
// runs even though everything derived from them (fills, equity, counts)
// does not.
func TestSimulator_Run_IsDeterministic(t *testing.T) {
	run := func() any {
		loc := time.UTC
		start := time.Date(2021, 1, 5, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 0, 3)

		clk := clock.New(calendar.NYSE(), loc, start, end, 0, clock.Day)
		provider := &fixtureProvider{price: decimal.NewFromInt(100)}
		manager := marketdata.NewManager(provider, marketdata.Day, 4)
		mkt := market.New(context.Background(), clk, manager)

		account := ledger.NewAccount(decimal.NewFromInt(1000))
		b := brokerage.New(account, mkt, commission.None{}, nil)
		strat := &buyOnceStrategy{ticker: "X"}
		stat := stats.New()
		sim := New(mkt, b, strat, stat)

		report, err := sim.Run(252)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return struct {
			StatusCounts     map[brokerage.StatusKind]int
			TotalCommissions decimal.Decimal
			MaxDrawdown      decimal.Decimal
			TotalReturn      decimal.Decimal
			Equity           []stats.EquitySample
		}{report.StatusCounts, report.TotalCommissions, report.MaxDrawdown, report.TotalReturn, report.Equity}
	}

	var _ strategy.Strategy = &buyOnceStrategy{}
	testkit.AssertDeterministic(t, run)
}

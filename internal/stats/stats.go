// Package stats implements the Statistics collector (C11): it accumulates
// per-status order counts, total commissions, the equity curve, and the
// full event log, and derives drawdown/return/Sharpe metrics at the end of
// a run.
package stats

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"jax-backtest/internal/brokerage"
)

// EquitySample is one (datetime, equity) point on the curve, recorded once
// per tick after event drain.
type EquitySample struct {
	Datetime time.Time
	Equity   decimal.Decimal
}

// Statistics accumulates events and equity samples over a run.
type Statistics struct {
	StatusCounts     map[brokerage.StatusKind]int
	TotalCommissions decimal.Decimal
	Equity           []EquitySample
	Events           []brokerage.Event
}

// New returns an empty Statistics collector.
func New() *Statistics {
	return &Statistics{
		StatusCounts:     make(map[brokerage.StatusKind]int),
		TotalCommissions: decimal.Zero,
	}
}

// Record consumes one brokerage event: order-status counts and commission
// totals update; every event is appended to the full log.
func (s *Statistics) Record(event brokerage.Event) {
	s.Events = append(s.Events, event)
	switch event.Kind {
	case brokerage.EventOrderUpdate:
		if event.Status.Kind == brokerage.PartiallyFilled {
			panic("stats: PartiallyFilled is reserved and never emitted")
		}
		s.StatusCounts[event.Status.Kind]++
	case brokerage.EventCommission:
		s.TotalCommissions = s.TotalCommissions.Add(event.Amount)
	}
}

// RecordEquity appends one sample to the equity curve. Callers must invoke
// this once per tick, after all of that tick's events have been drained.
func (s *Statistics) RecordEquity(dt time.Time, equity decimal.Decimal) {
	s.Equity = append(s.Equity, EquitySample{Datetime: dt, Equity: equity})
}

// MaxDrawdown walks the equity curve maintaining the running peak and
// reports the most negative value/peak-1 seen. Zero (no drawdown) if the
// curve has fewer than two points.
func (s *Statistics) MaxDrawdown() decimal.Decimal {
	if len(s.Equity) == 0 {
		return decimal.Zero
	}
	peak := s.Equity[0].Equity
	worst := decimal.Zero
	for _, sample := range s.Equity {
		if sample.Equity.GreaterThan(peak) {
			peak = sample.Equity
		}
		if peak.IsZero() {
			continue
		}
		drawdown := sample.Equity.Div(peak).Sub(decimal.NewFromInt(1))
		if drawdown.LessThan(worst) {
			worst = drawdown
		}
	}
	return worst
}

// TotalReturn is last/first - 1 over the equity curve. Zero if the curve
// has fewer than two points or starts at zero.
func (s *Statistics) TotalReturn() decimal.Decimal {
	if len(s.Equity) < 2 {
		return decimal.Zero
	}
	first := s.Equity[0].Equity
	last := s.Equity[len(s.Equity)-1].Equity
	if first.IsZero() {
		return decimal.Zero
	}
	return last.Div(first).Sub(decimal.NewFromInt(1))
}

// SharpeRatio computes the annualized Sharpe ratio of per-sample returns,
// assuming periodsPerYear observations per year (252 for daily bars). Zero
// if there are fewer than two samples or the return series has zero
// variance.
func (s *Statistics) SharpeRatio(periodsPerYear float64) float64 {
	if len(s.Equity) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(s.Equity)-1)
	for i := 1; i < len(s.Equity); i++ {
		prev, _ := s.Equity[i-1].Equity.Float64()
		cur, _ := s.Equity[i].Equity.Float64()
		if prev == 0 {
			continue
		}
		returns = append(returns, (cur-prev)/prev)
	}
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)
	stddev := math.Sqrt(variance)
	if stddev == 0 {
		return 0
	}
	return (mean / stddev) * math.Sqrt(periodsPerYear)
}

// Report is the end-of-run summary handed to the advisory report writers.
// Formatting is not part of the core contract; this is the data they
// format.
type Report struct {
	StatusCounts     map[brokerage.StatusKind]int
	TotalCommissions decimal.Decimal
	MaxDrawdown      decimal.Decimal
	TotalReturn      decimal.Decimal
	SharpeRatio      float64
	Equity           []EquitySample
	Events           []brokerage.Event
}

// EmitReport snapshots the accumulated statistics into a Report.
func (s *Statistics) EmitReport(periodsPerYear float64) Report {
	return Report{
		StatusCounts:     s.StatusCounts,
		TotalCommissions: s.TotalCommissions,
		MaxDrawdown:      s.MaxDrawdown(),
		TotalReturn:      s.TotalReturn(),
		SharpeRatio:      s.SharpeRatio(periodsPerYear),
		Equity:           s.Equity,
		Events:           s.Events,
	}
}

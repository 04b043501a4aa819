package stats

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"jax-backtest/internal/brokerage"
)

func eq(hour int, value int64) EquitySample {
	return EquitySample{
		Datetime: time.Date(2021, 1, 5, hour, 0, 0, 0, time.UTC),
		Equity:   decimal.NewFromInt(value),
	}
}

func TestStatistics_Record_CountsByStatusAndCommission(t *testing.T) {
	s := New()
	s.Record(brokerage.Event{Kind: brokerage.EventOrderUpdate, Status: brokerage.OrderStatus{Kind: brokerage.Submitted}})
	s.Record(brokerage.Event{Kind: brokerage.EventOrderUpdate, Status: brokerage.OrderStatus{Kind: brokerage.Filled}})
	s.Record(brokerage.Event{Kind: brokerage.EventCommission, Amount: decimal.NewFromInt(5)})

	if s.StatusCounts[brokerage.Submitted] != 1 || s.StatusCounts[brokerage.Filled] != 1 {
		t.Fatalf("got counts %+v", s.StatusCounts)
	}
	if !s.TotalCommissions.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("got commissions %s, want 5", s.TotalCommissions)
	}
	if len(s.Events) != 3 {
		t.Fatalf("expected full event log of 3, got %d", len(s.Events))
	}
}

func TestStatistics_MaxDrawdown_WalksRunningPeak(t *testing.T) {
	s := New()
	for _, sample := range []EquitySample{eq(9, 100), eq(10, 120), eq(11, 90), eq(12, 110)} {
		s.RecordEquity(sample.Datetime, sample.Equity)
	}
	got := s.MaxDrawdown()
	want, _ := decimal.NewFromString("-0.25") // 90/120 - 1
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestStatistics_TotalReturn(t *testing.T) {
	s := New()
	s.RecordEquity(time.Now(), decimal.NewFromInt(100))
	s.RecordEquity(time.Now(), decimal.NewFromInt(150))
	got := s.TotalReturn()
	if !got.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("got %s, want 0.5", got)
	}
}

func TestStatistics_EmptyCurve_ZeroValues(t *testing.T) {
	s := New()
	if !s.MaxDrawdown().IsZero() || !s.TotalReturn().IsZero() {
		t.Fatal("expected zero drawdown/return on empty curve")
	}
	if s.SharpeRatio(252) != 0 {
		t.Fatal("expected zero sharpe on empty curve")
	}
}

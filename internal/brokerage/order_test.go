package brokerage

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// TestOrder_MarketabilityMatrix covers every cell named in the marketability
// matrix: Market always fills; Limit/Stop/Stop-Limit gate on side and price,
// with the Stop-Limit OR semantics preserved deliberately (see IsMarketable's
// doc comment) rather than the canonical trigger-then-match behavior.
func TestOrder_MarketabilityMatrix(t *testing.T) {
	cases := []struct {
		name  string
		order Order
		price decimal.Decimal
		want  bool
	}{
		{"market_buy_always", NewOrder("X", d(10)), d(100), true},
		{"market_sell_always", NewOrder("X", d(-10)), d(100), true},

		{"limit_buy_marketable_at_or_below", NewOrder("X", d(10)).WithLimit(d(95)), d(90), true},
		{"limit_buy_marketable_at_equal", NewOrder("X", d(10)).WithLimit(d(95)), d(95), true},
		{"limit_buy_not_marketable_above", NewOrder("X", d(10)).WithLimit(d(95)), d(100), false},
		{"limit_sell_marketable_at_or_above", NewOrder("X", d(-10)).WithLimit(d(95)), d(100), true},
		{"limit_sell_not_marketable_below", NewOrder("X", d(-10)).WithLimit(d(95)), d(90), false},

		{"stop_buy_triggers_at_or_above", NewOrder("X", d(10)).WithStop(d(95)), d(100), true},
		{"stop_buy_not_triggered_below", NewOrder("X", d(10)).WithStop(d(95)), d(90), false},
		{"stop_sell_triggers_at_or_below", NewOrder("X", d(-10)).WithStop(d(95)), d(90), true},
		{"stop_sell_not_triggered_above", NewOrder("X", d(-10)).WithStop(d(95)), d(100), false},

		{"stoplimit_buy_stop_triggers", NewOrder("X", d(10)).WithStop(d(95)).WithLimit(d(80)), d(100), true},
		{"stoplimit_buy_limit_matches_even_if_stop_not_triggered", NewOrder("X", d(10)).WithStop(d(95)).WithLimit(d(100)), d(90), true},
		{"stoplimit_buy_neither", NewOrder("X", d(10)).WithStop(d(95)).WithLimit(d(80)), d(90), false},
		{"stoplimit_sell_stop_triggers", NewOrder("X", d(-10)).WithStop(d(95)).WithLimit(d(100)), d(90), true},
		{"stoplimit_sell_limit_matches_even_if_stop_not_triggered", NewOrder("X", d(-10)).WithStop(d(80)).WithLimit(d(90)), d(100), true},
		{"stoplimit_sell_neither", NewOrder("X", d(-10)).WithStop(d(80)).WithLimit(d(90)), d(85), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.order.IsMarketable(tc.price); got != tc.want {
				t.Errorf("IsMarketable(%s) = %v, want %v", tc.price, got, tc.want)
			}
		})
	}
}

func TestOrder_WithLimitThenWithStop_BecomesStopLimit(t *testing.T) {
	o := NewOrder("X", d(10)).WithLimit(d(95))
	if o.Kind != Limit {
		t.Fatalf("expected Limit, got %v", o.Kind)
	}
	o = o.WithStop(d(90))
	if o.Kind != StopLimit {
		t.Fatalf("expected StopLimit after adding a stop to a limit order, got %v", o.Kind)
	}
	if !o.LimitPrice.Equal(d(95)) || !o.StopPrice.Equal(d(90)) {
		t.Fatalf("expected both prices preserved, got limit=%s stop=%s", o.LimitPrice, o.StopPrice)
	}
}

func TestOrder_SharesRoundedTo8dp(t *testing.T) {
	shares, _ := decimal.NewFromString("1.123456789123")
	o := NewOrder("X", shares)
	want, _ := decimal.NewFromString("1.12345679")
	if !o.Shares.Equal(want) {
		t.Errorf("got %s, want %s", o.Shares, want)
	}
}

// Package config defines the Simulation configuration surface: the
// tickers, date range, resolution, and output options a run is launched
// with. CLI flag/env parsing lives outside the core (in cmd/backtest).
package config

import (
	"fmt"
	"time"

	"jax-backtest/internal/clock"
)

// Simulation is the external configuration for one backtest run.
type Simulation struct {
	Tickers                []string
	StartDate              time.Time
	EndDate                time.Time
	WarmupDuration         time.Duration
	Resolution             clock.Resolution
	NormalizeToRegularHours bool
	OutputDirectory        string
}

// Validate checks the invariants a Simulation must satisfy before a run
// starts: at least one ticker, a non-empty date range in order, and a
// non-negative warmup.
func (s Simulation) Validate() error {
	if len(s.Tickers) == 0 {
		return fmt.Errorf("config: at least one ticker is required")
	}
	if s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("config: end_date %s precedes start_date %s", s.EndDate, s.StartDate)
	}
	if s.WarmupDuration < 0 {
		return fmt.Errorf("config: warmup_duration must be non-negative, got %s", s.WarmupDuration)
	}
	return nil
}

// Package clock implements the simulation cursor and per-session state
// machine: the Clock advances a DateTime cursor through the cyclic
// PreOpen -> Opening -> Open -> Closing -> Closed session states, with
// tick semantics that depend on the configured Resolution.
package clock

import (
	"fmt"
	"time"

	"jax-backtest/internal/calendar"
)

// Resolution selects how finely the simulation steps through time.
// It is chosen once at simulation start and never changes.
type Resolution int

const (
	Minute Resolution = iota
	Day
)

func (r Resolution) String() string {
	switch r {
	case Minute:
		return "minute"
	case Day:
		return "day"
	default:
		return "unknown"
	}
}

// MarketState is a phase of the exchange trading session.
type MarketState int

const (
	PreOpen MarketState = iota
	Opening
	Open
	Closing
	Closed
)

func (s MarketState) String() string {
	switch s {
	case PreOpen:
		return "pre_open"
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

func (s MarketState) next() MarketState {
	return (s + 1) % 5
}

var (
	openingHour, openingMinute = 9, 30
	closingHour, closingMinute = 16, 0
)

// Clock advances the simulation cursor and the session state machine.
type Clock struct {
	datetime   time.Time
	state      MarketState
	cal        *calendar.Calendar
	loc        *time.Location
	end        time.Time
	resolution Resolution
}

// New constructs a Clock whose cursor starts at start's opening time plus
// warmup, rolled forward to the next business day if start itself is not
// one. end is the last business day the simulation may cover.
func New(cal *calendar.Calendar, loc *time.Location, start, end time.Time, warmup time.Duration, resolution Resolution) *Clock {
	start = dateOnly(start)
	end = dateOnly(end)
	if !cal.IsBusinessDay(start) {
		start = cal.AdvanceBusinessDays(start, 0)
	}

	datetime := openingTime(start, loc).Add(warmup)

	return &Clock{
		datetime:   datetime,
		state:      PreOpen,
		cal:        cal,
		loc:        loc,
		end:        end,
		resolution: resolution,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func openingTime(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), openingHour, openingMinute, 0, 0, loc)
}

func closingTime(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), closingHour, closingMinute, 0, 0, loc)
}

// Datetime returns the current cursor.
func (c *Clock) Datetime() time.Time {
	return c.datetime
}

// State returns the current session state.
func (c *Clock) State() MarketState {
	return c.state
}

// IsOpen reports whether the market is in a state where it can receive and
// fill orders: Opening, Open, or Closing.
func (c *Clock) IsOpen() bool {
	switch c.state {
	case Opening, Open, Closing:
		return true
	default:
		return false
	}
}

// IsDone reports whether the simulation has reached its terminal condition:
// the cursor's date is at or past end and the state is Closed.
func (c *Clock) IsDone() bool {
	return !dateOnly(c.datetime).Before(c.end) && c.state == Closed
}

func (c *Clock) isStartOfDay() bool {
	if c.resolution == Day {
		return true
	}
	return c.datetime.Hour() == openingHour && c.datetime.Minute() == openingMinute
}

func (c *Clock) isEndOfDay() bool {
	if c.resolution == Day {
		return true
	}
	return c.datetime.Hour() == closingHour && c.datetime.Minute() == closingMinute
}

// PreviousDatetime returns the timestamp of the prior bar: the prior minute
// for Minute resolution, or the prior close if at start-of-day.
func (c *Clock) PreviousDatetime() time.Time {
	if c.isStartOfDay() {
		prevDay := c.cal.AdvanceBusinessDays(dateOnly(c.datetime), -1)
		return closingTime(prevDay, c.loc)
	}
	switch c.resolution {
	case Minute:
		return c.datetime.Add(-time.Minute)
	default:
		panic("clock: previous_datetime mid-day is unreachable for Day resolution")
	}
}

// NextDatetime is the symmetric counterpart of PreviousDatetime.
func (c *Clock) NextDatetime() time.Time {
	if c.isEndOfDay() {
		nextDay := c.cal.AdvanceBusinessDays(dateOnly(c.datetime), 1)
		return openingTime(nextDay, c.loc)
	}
	switch c.resolution {
	case Minute:
		return c.datetime.Add(time.Minute)
	default:
		panic("clock: next_datetime mid-day is unreachable for Day resolution")
	}
}

// Tick advances the state machine by one step, and for Minute resolution
// also advances the cursor minute-by-minute through the Open state.
// Ticking after IsDone is a programmer error.
func (c *Clock) Tick() {
	if c.IsDone() {
		panic(fmt.Sprintf("clock: tick called after is_done at %s", c.datetime))
	}

	if c.isEndOfDay() {
		if c.state == Closed {
			nextDay := c.cal.AdvanceBusinessDays(dateOnly(c.datetime), 1)
			c.datetime = openingTime(nextDay, c.loc)
		}
		c.state = c.state.next()
		return
	}

	switch c.state {
	case PreOpen, Opening:
		c.state = c.state.next()
	default:
		if c.resolution != Minute {
			panic("clock: mid-day tick outside end-of-day is unreachable for Day resolution")
		}
		c.datetime = c.datetime.Add(time.Minute)
	}
}

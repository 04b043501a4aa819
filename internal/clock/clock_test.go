package clock

import (
	"testing"
	"time"

	"jax-backtest/internal/calendar"
)

func mustLocation(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func ymd(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClock_DayResolution_CyclesFiveStatesPerDay(t *testing.T) {
	loc := mustLocation(t)
	cal := calendar.NYSE()
	c := New(cal, loc, ymd(2021, time.January, 1), ymd(2021, time.December, 31), 0, Day)

	want := openingTime(ymd(2021, time.January, 4), loc)
	if !c.Datetime().Equal(want) {
		t.Fatalf("datetime = %s, want %s", c.Datetime(), want)
	}
	wantNext := openingTime(ymd(2021, time.January, 5), loc)
	if !c.NextDatetime().Equal(wantNext) {
		t.Fatalf("next_datetime = %s, want %s", c.NextDatetime(), wantNext)
	}

	if c.State() != PreOpen || c.IsOpen() {
		t.Fatalf("initial state = %v, want PreOpen and closed", c.State())
	}

	c.Tick()
	if c.State() != Opening || !c.IsOpen() {
		t.Fatalf("state = %v, want Opening (open)", c.State())
	}
	c.Tick()
	if c.State() != Open || !c.IsOpen() {
		t.Fatalf("state = %v, want Open", c.State())
	}
	c.Tick()
	if c.State() != Closing || !c.IsOpen() {
		t.Fatalf("state = %v, want Closing", c.State())
	}
	c.Tick()
	if c.State() != Closed || c.IsOpen() {
		t.Fatalf("state = %v, want Closed (not open)", c.State())
	}
	c.Tick()
	if c.State() != PreOpen {
		t.Fatalf("state = %v, want PreOpen", c.State())
	}
}

func TestClock_MinuteResolution_391OpenTicksBetweenOpeningAndClosing(t *testing.T) {
	loc := mustLocation(t)
	cal := calendar.NYSE()
	c := New(cal, loc, ymd(2021, time.January, 1), ymd(2021, time.December, 31), 0, Minute)

	want := openingTime(ymd(2021, time.January, 4), loc)
	if !c.Datetime().Equal(want) {
		t.Fatalf("datetime = %s, want %s", c.Datetime(), want)
	}
	wantNext := want.Add(time.Minute)
	if !c.NextDatetime().Equal(wantNext) {
		t.Fatalf("next_datetime = %s, want %s", c.NextDatetime(), wantNext)
	}

	if c.State() != PreOpen || c.IsOpen() {
		t.Fatalf("initial state = %v, want PreOpen (closed)", c.State())
	}

	c.Tick()
	if c.State() != Opening || !c.IsOpen() {
		t.Fatalf("state = %v, want Opening", c.State())
	}

	for i := 0; i < 391; i++ {
		c.Tick()
		if c.State() != Open || !c.IsOpen() {
			t.Fatalf("tick %d: state = %v, want Open", i, c.State())
		}
	}

	c.Tick()
	if c.State() != Closing || !c.IsOpen() {
		t.Fatalf("state = %v, want Closing", c.State())
	}
	c.Tick()
	if c.State() != Closed || c.IsOpen() {
		t.Fatalf("state = %v, want Closed", c.State())
	}
	c.Tick()
	if c.State() != PreOpen || c.IsOpen() {
		t.Fatalf("state = %v, want PreOpen", c.State())
	}
	c.Tick()
	if c.State() != Opening || !c.IsOpen() {
		t.Fatalf("state = %v, want Opening", c.State())
	}
	c.Tick()
	if c.State() != Open || !c.IsOpen() {
		t.Fatalf("state = %v, want Open", c.State())
	}
}

func TestClock_IsDone_StableAfterTrue(t *testing.T) {
	loc := mustLocation(t)
	cal := calendar.NYSE()
	// A single-day run: start == end.
	c := New(cal, loc, ymd(2021, time.January, 5), ymd(2021, time.January, 5), 0, Day)

	for i := 0; i < 4; i++ {
		if c.IsDone() {
			t.Fatalf("tick %d: is_done prematurely true", i)
		}
		c.Tick()
	}
	if !c.IsDone() {
		t.Fatal("expected is_done after 4 ticks (Closed reached)")
	}
	// Ticking again would panic; verify is_done stays true without ticking.
	if !c.IsDone() {
		t.Fatal("is_done must remain stable once true")
	}
}

func TestClock_TickAfterDone_Panics(t *testing.T) {
	loc := mustLocation(t)
	cal := calendar.NYSE()
	c := New(cal, loc, ymd(2021, time.January, 5), ymd(2021, time.January, 5), 0, Day)
	for i := 0; i < 4; i++ {
		c.Tick()
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic ticking after is_done")
		}
	}()
	c.Tick()
}

// Package calendar provides deterministic business-day arithmetic over a
// named exchange schedule: weekend rules, fixed and floating holidays, and
// a literal table of historical special closures.
//
// Calendar is pure and holds no wall-clock state: every method is a
// function of its date arguments alone.
package calendar

import "time"

// Calendar encodes one exchange's trading-day schedule.
type Calendar struct {
	name string
}

// NYSE returns the calendar for the New York Stock Exchange.
func NYSE() *Calendar {
	return &Calendar{name: "XNYS"}
}

// Name returns the exchange identifier, e.g. "XNYS".
func (c *Calendar) Name() string {
	return c.name
}

// IsBusinessDay reports whether date is a weekday the exchange is open on.
func (c *Calendar) IsBusinessDay(date time.Time) bool {
	date = dateOnly(date)
	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(date)
}

// AdvanceBusinessDays returns the business day n business days after date.
// n may be negative to move backwards; n == 0 returns the next business day
// at-or-after date if date itself is not a business day, otherwise date.
func (c *Calendar) AdvanceBusinessDays(date time.Time, n int) time.Time {
	date = dateOnly(date)
	if n == 0 {
		for !c.IsBusinessDay(date) {
			date = date.AddDate(0, 0, 1)
		}
		return date
	}

	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	// If date itself isn't a business day, snap it to the nearest one in
	// the direction of travel first; that snap doesn't consume a step.
	for !c.IsBusinessDay(date) {
		date = date.AddDate(0, 0, step)
	}
	for n > 0 {
		date = date.AddDate(0, 0, step)
		if c.IsBusinessDay(date) {
			n--
		}
	}
	return date
}

// BusinessDaysBetween counts the business days in (a, b], i.e. strictly
// after a and up to and including b. If b is before a the count is negative.
func (c *Calendar) BusinessDaysBetween(a, b time.Time) int {
	a, b = dateOnly(a), dateOnly(b)
	if b.Equal(a) {
		return 0
	}
	if b.Before(a) {
		return -c.BusinessDaysBetween(b, a)
	}
	count := 0
	for d := a.AddDate(0, 0, 1); !d.After(b); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			count++
		}
	}
	return count
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// adjustWeekendUS applies the US observance rule: a holiday on Saturday is
// observed the preceding Friday, one on Sunday the following Monday.
func adjustWeekendUS(date time.Time) time.Time {
	switch date.Weekday() {
	case time.Saturday:
		return date.AddDate(0, 0, -1)
	case time.Sunday:
		return date.AddDate(0, 0, 1)
	default:
		return date
	}
}

func endOfMonth(year int, month time.Month) time.Time {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.AddDate(0, 0, -1)
}

// findWeekdayAscending returns the date of the occurrence-th weekday of
// (year, month), counting from the 1st.
func findWeekdayAscending(weekday time.Weekday, year int, month time.Month, occurrence int) time.Time {
	anchor := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) + 7 - int(anchor.Weekday())) % 7
	if occurrence > 1 {
		offset += 7 * (occurrence - 1)
	}
	return anchor.AddDate(0, 0, offset)
}

// findWeekdayDescending returns the date of the occurrence-th weekday of
// (year, month), counting backwards from the end of the month.
func findWeekdayDescending(weekday time.Weekday, year int, month time.Month, occurrence int) time.Time {
	anchor := endOfMonth(year, month)
	offset := (int(anchor.Weekday()) + 7 - int(weekday)) % 7
	if occurrence > 1 {
		offset += 7 * (occurrence - 1)
	}
	return anchor.AddDate(0, 0, -offset)
}

func findWeekday(weekday time.Weekday, year int, month time.Month, occurrence int, ascending bool) time.Time {
	if ascending {
		return findWeekdayAscending(weekday, year, month, occurrence)
	}
	return findWeekdayDescending(weekday, year, month, occurrence)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// isHoliday reports whether date (already truncated to a calendar day) is a
// NYSE holiday or historical special closure.
func isHoliday(date time.Time) bool {
	year, month, day := date.Date()
	_ = day

	// New Year's Day.
	if sameDate(adjustWeekendUS(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)), date) {
		return true
	}

	// Birthday of Martin Luther King, Jr. (observed since 1998).
	if year >= 1998 && sameDate(adjustWeekendUS(findWeekday(time.Monday, year, time.January, 3, true)), date) {
		return true
	}

	// Washington's Birthday.
	if sameDate(adjustWeekendUS(findWeekday(time.Monday, year, time.February, 3, true)), date) {
		return true
	}

	// Good Friday: Easter minus two days.
	if e := easter(year); sameDate(e.AddDate(0, 0, -2), date) {
		return true
	}

	// Memorial Day: last Monday in May.
	if sameDate(adjustWeekendUS(findWeekday(time.Monday, year, time.May, 1, false)), date) {
		return true
	}

	// Juneteenth (observed since 2022).
	if year >= 2022 && sameDate(adjustWeekendUS(time.Date(year, time.June, 19, 0, 0, 0, 0, time.UTC)), date) {
		return true
	}

	// Independence Day.
	if sameDate(adjustWeekendUS(time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC)), date) {
		return true
	}

	// Labor Day: first Monday in September.
	if sameDate(adjustWeekendUS(findWeekday(time.Monday, year, time.September, 1, true)), date) {
		return true
	}

	// Thanksgiving: fourth Thursday in November.
	if sameDate(adjustWeekendUS(findWeekday(time.Thursday, year, time.November, 4, true)), date) {
		return true
	}

	// Christmas.
	if sameDate(adjustWeekendUS(time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC)), date) {
		return true
	}

	// Historical election days (the Tuesday after the first Monday in
	// November): every year through 1968, presidential years through 1980.
	if (year <= 1968 || (year <= 1980 && year%4 == 0)) &&
		month == time.November && day >= 2 && day <= 8 && date.Weekday() == time.Tuesday {
		return true
	}

	return isSpecialClosure(date)
}

// easter computes the date of Easter Sunday for the given Gregorian year
// using the anonymous Gregorian algorithm (Meeus/Jones/Butcher).
func easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func ymd(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// specialClosures is the literal table of historical one-off NYSE closures
// that fall outside the regular holiday rules: funerals, weather, and other
// disruptions. This list is part of the core contract and must not be
// trimmed for convenience.
var specialClosures = []time.Time{
	ymd(2018, time.December, 5),  // George H.W. Bush's funeral
	ymd(2012, time.October, 29),  // Hurricane Sandy
	ymd(2012, time.October, 30),  // Hurricane Sandy
	ymd(2007, time.January, 2),   // President Ford's funeral
	ymd(2001, time.September, 11),
	ymd(2001, time.September, 12),
	ymd(2001, time.September, 13),
	ymd(2001, time.September, 14),
	ymd(1994, time.April, 27),    // President Nixon's funeral
	ymd(1985, time.September, 27), // Hurricane Gloria
	ymd(1977, time.July, 14),     // 1977 blackout
	ymd(1973, time.January, 25),  // President Johnson's funeral
	ymd(1972, time.December, 25), // President Truman's funeral
	ymd(1969, time.July, 21),     // Moon landing
	ymd(1969, time.March, 31),    // President Eisenhower's funeral
	ymd(1969, time.February, 10), // Heavy snow
	ymd(1968, time.July, 5),      // Day after Independence Day
	// "Paperwork crisis" Wednesday closures.
	ymd(1968, time.June, 12), ymd(1968, time.June, 19), ymd(1968, time.June, 26),
	ymd(1968, time.July, 3), ymd(1968, time.July, 10), ymd(1968, time.July, 17),
	ymd(1968, time.July, 24), ymd(1968, time.July, 31),
	ymd(1968, time.August, 7), ymd(1968, time.August, 14), ymd(1968, time.August, 21), ymd(1968, time.August, 28),
	ymd(1968, time.September, 4), ymd(1968, time.September, 11), ymd(1968, time.September, 18), ymd(1968, time.September, 25),
	ymd(1968, time.October, 2), ymd(1968, time.October, 9), ymd(1968, time.October, 16), ymd(1968, time.October, 23), ymd(1968, time.October, 30),
	ymd(1968, time.November, 6), ymd(1968, time.November, 13), ymd(1968, time.November, 20), ymd(1968, time.November, 27),
	ymd(1968, time.December, 4), ymd(1968, time.December, 11), ymd(1968, time.December, 18), ymd(1968, time.December, 25),
	ymd(1968, time.April, 9),    // MLK assassination
	ymd(1963, time.November, 25), // President Kennedy's funeral
	ymd(1961, time.May, 29),      // Day before Decoration Day
	ymd(1958, time.December, 26), // Day after Christmas
	ymd(1965, time.December, 24), // Christmas Eve
	ymd(1956, time.December, 24),
	ymd(1954, time.December, 24),
}

func isSpecialClosure(date time.Time) bool {
	for _, d := range specialClosures {
		if sameDate(d, date) {
			return true
		}
	}
	return false
}

package calendar

import "time"

// easterSunday uses the anonymous Gregorian algorithm.
func easterSunday(year int) time.Time {
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

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// nthWeekday reports whether t is the n-th given weekday of its month.
func nthWeekday(t time.Time, n int, w time.Weekday) bool {
	return t.Weekday() == w && (t.Day()-1)/7 == n-1
}

// lastWeekday reports whether t is the last given weekday of its month.
func lastWeekday(t time.Time, w time.Weekday) bool {
	return t.Weekday() == w && t.AddDate(0, 0, 7).Month() != t.Month()
}

func isTargetHoliday(t time.Time) bool {
	d, m, y := t.Day(), t.Month(), t.Year()
	easter := easterSunday(y)
	return (d == 1 && m == time.January) ||
		sameDay(t, easter.AddDate(0, 0, -2)) ||
		sameDay(t, easter.AddDate(0, 0, 1)) ||
		(d == 1 && m == time.May && y >= 2000) ||
		(d == 25 && m == time.December) ||
		(d == 26 && m == time.December && y >= 2000)
}

// isFedHoliday follows the Federal Reserve schedule: Sunday holidays move to Monday,
// Saturday holidays are not observed on Friday.
func isFedHoliday(t time.Time) bool {
	d, m, y, w := t.Day(), t.Month(), t.Year(), t.Weekday()
	fixed := func(day int, month time.Month) bool {
		return m == month && (d == day || (d == day+1 && w == time.Monday))
	}
	return fixed(1, time.January) ||
		(m == time.January && nthWeekday(t, 3, time.Monday) && y >= 1983) ||
		(m == time.February && nthWeekday(t, 3, time.Monday)) ||
		(m == time.May && lastWeekday(t, time.Monday)) ||
		(fixed(19, time.June) && y >= 2022) ||
		fixed(4, time.July) ||
		(m == time.September && nthWeekday(t, 1, time.Monday)) ||
		(m == time.October && nthWeekday(t, 2, time.Monday) && y >= 1971) ||
		fixed(11, time.November) ||
		(m == time.November && nthWeekday(t, 4, time.Thursday)) ||
		fixed(25, time.December)
}

func isChileHoliday(t time.Time) bool {
	d, m, y, w := t.Day(), t.Month(), t.Year(), t.Weekday()
	easter := easterSunday(y)
	switch {
	case d == 1 && m == time.January,
		d == 2 && m == time.January && w == time.Monday && y > 2016,
		sameDay(t, easter.AddDate(0, 0, -2)),
		sameDay(t, easter.AddDate(0, 0, -1)),
		d == 1 && m == time.May,
		d == 21 && m == time.May,
		isChileIndigenousPeoplesDay(t),
		// St. Peter and St. Paul, moved to the closest Monday
		m == time.June && d >= 26 && d <= 29 && w == time.Monday,
		m == time.July && d == 2 && w == time.Monday,
		d == 16 && m == time.July,
		d == 15 && m == time.August,
		d == 16 && m == time.September && y == 2022,
		d == 17 && m == time.September && ((w == time.Monday && y >= 2007) || (w == time.Friday && y > 2016)),
		d == 18 && m == time.September,
		d == 19 && m == time.September,
		d == 20 && m == time.September && w == time.Friday && y >= 2007,
		// Discovery of Two Worlds, moved to the closest Monday
		m == time.October && d >= 9 && d <= 12 && w == time.Monday,
		m == time.October && d == 15 && w == time.Monday,
		y >= 2008 && ((d == 27 && m == time.October && w == time.Friday) ||
			(d == 31 && m == time.October && w != time.Tuesday && w != time.Wednesday) ||
			(d == 2 && m == time.November && w == time.Friday)),
		d == 1 && m == time.November,
		d == 8 && m == time.December,
		d == 25 && m == time.December:
		return true
	}
	return false
}

// isChileIndigenousPeoplesDay is the winter solstice holiday introduced in 2021.
func isChileIndigenousPeoplesDay(t time.Time) bool {
	if t.Month() != time.June || t.Year() < 2021 {
		return false
	}
	switch t.Year() {
	case 2024, 2025:
		return t.Day() == 20
	default:
		return t.Day() == 21
	}
}

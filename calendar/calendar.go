package calendar

import (
	"time"

	"github.com/meenmo/oiscurve/utils"
)

// Calendar decides which dates are business days.
type Calendar interface {
	Name() string
	IsBusinessDay(t time.Time) bool
}

// CalendarID identifies a rule-based holiday calendar.
type CalendarID string

const (
	TARGET CalendarID = "TARGET"
	// FED is the United States Federal Reserve (Fedwire) calendar.
	FED CalendarID = "FED"
	// CLP is the Chilean (Santiago Stock Exchange) calendar.
	CLP CalendarID = "CLP"
	// WeekendsOnly treats every weekday as a business day.
	WeekendsOnly CalendarID = "WEEKENDS"
	// Null treats every day, weekends included, as a business day.
	Null CalendarID = "NULL"
)

var holidayRules = map[CalendarID]func(time.Time) bool{
	TARGET:       isTargetHoliday,
	FED:          isFedHoliday,
	CLP:          isChileHoliday,
	WeekendsOnly: func(time.Time) bool { return false },
}

// Known reports whether id names a supported calendar.
func Known(id CalendarID) bool {
	if id == Null {
		return true
	}
	_, ok := holidayRules[id]
	return ok
}

// Name returns the calendar identifier.
func (id CalendarID) Name() string {
	return string(id)
}

// IsBusinessDay checks weekends and the holiday rules of id.
func (id CalendarID) IsBusinessDay(t time.Time) bool {
	if id == Null {
		return true
	}
	if isWeekend(t) {
		return false
	}
	rule, ok := holidayRules[id]
	if !ok {
		return true
	}
	return !rule(t)
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// IsBusinessDay reports whether t is a business day on cal.
func IsBusinessDay(cal Calendar, t time.Time) bool {
	return cal.IsBusinessDay(t)
}

// IsHoliday reports whether t is not a business day on cal.
func IsHoliday(cal Calendar, t time.Time) bool {
	return !cal.IsBusinessDay(t)
}

// Adjust applies Modified Following.
func Adjust(cal Calendar, t time.Time) time.Time {
	return AdjustWith(cal, t, ModifiedFollowing)
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal Calendar, t time.Time) time.Time {
	return AdjustWith(cal, t, Following)
}

// AdjustWith rolls t onto a business day of cal according to conv.
func AdjustWith(cal Calendar, t time.Time, conv BusinessDayConvention) time.Time {
	switch conv {
	case Unadjusted:
		return t
	case Following:
		for !cal.IsBusinessDay(t) {
			t = t.AddDate(0, 0, 1)
		}
		return t
	case Preceding:
		for !cal.IsBusinessDay(t) {
			t = t.AddDate(0, 0, -1)
		}
		return t
	case ModifiedFollowing:
		adjusted := AdjustWith(cal, t, Following)
		if adjusted.Month() != t.Month() {
			return AdjustWith(cal, t, Preceding)
		}
		return adjusted
	case ModifiedPreceding:
		adjusted := AdjustWith(cal, t, Preceding)
		if adjusted.Month() != t.Month() {
			return AdjustWith(cal, t, Following)
		}
		return adjusted
	default:
		return AdjustWith(cal, t, Following)
	}
}

// AddBusinessDays advances n business days (n can be negative).
// With n == 0 it returns t rolled forward onto a business day.
func AddBusinessDays(cal Calendar, t time.Time, n int) time.Time {
	if n == 0 {
		return AdjustFollowing(cal, t)
	}
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if cal.IsBusinessDay(t) {
			n -= step
		}
	}
	return t
}

// Advance moves t by p on cal.
//
// Day periods count business days. Week, month and year periods move calendar time and then
// roll with conv; with endOfMonth set, a start on the last business day of its month lands on
// the last business day of the target month.
func Advance(cal Calendar, t time.Time, p Period, conv BusinessDayConvention, endOfMonth bool) time.Time {
	switch p.Unit {
	case Days:
		if p.N == 0 {
			return AdjustWith(cal, t, conv)
		}
		return AddBusinessDays(cal, t, p.N)
	case Weeks:
		return AdjustWith(cal, t.AddDate(0, 0, 7*p.N), conv)
	default:
		target := utils.AddMonth(t, p.Months())
		if endOfMonth && IsEndOfMonth(cal, t) {
			return LastBusinessDayOfMonth(cal, target)
		}
		return AdjustWith(cal, target, conv)
	}
}

// BusinessDaysBetween lists the business days d with from <= d < to.
func BusinessDaysBetween(cal Calendar, from, to time.Time) []time.Time {
	var out []time.Time
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if cal.IsBusinessDay(d) {
			out = append(out, d)
		}
	}
	return out
}

// LastBusinessDayOfMonth returns the last business day of the month containing t.
func LastBusinessDayOfMonth(cal Calendar, t time.Time) time.Time {
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return AdjustWith(cal, last, Preceding)
}

// IsEndOfMonth checks if t is the last business day of its month.
func IsEndOfMonth(cal Calendar, t time.Time) bool {
	return t.Equal(LastBusinessDayOfMonth(cal, t))
}

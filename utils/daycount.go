package utils

import (
	"time"
)

// DayCount names a day count convention.
type DayCount string

const (
	Act360    DayCount = "ACT/360"
	Act365F   DayCount = "ACT/365F"
	Thirty360 DayCount = "30/360"
	// Thirty360E is 30E/360 ISDA (Eurobond basis).
	Thirty360E DayCount = "30E/360"
)

// YearFraction returns the accrual fraction between start and end under dc.
func (dc DayCount) YearFraction(start, end time.Time) float64 {
	return YearFraction(start, end, string(dc))
}

// DayCount returns the number of days between start and end under dc.
func (dc DayCount) DayCount(start, end time.Time) int {
	switch dc {
	case Thirty360, Thirty360E:
		return int(dc.YearFraction(start, end) * 360)
	default:
		return int(Days(start, end))
	}
}

// YearFraction computes year fraction between two dates using the specified day count convention.
// Supported conventions: ACT/360, ACT/365F, 30E/360, 30/360
func YearFraction(start, end time.Time, convention string) float64 {
	switch convention {
	case "ACT/360":
		return Days(start, end) / 360.0
	case "ACT/365F":
		return Days(start, end) / 365.0
	case "30E/360":
		// D1 and D2 are capped at 30
		d1 := min(start.Day(), 30)
		d2 := min(end.Day(), 30)
		return thirty360(start, end, d1, d2)
	case "30/360":
		// US bond basis: D2 is capped only when D1 already is.
		d1 := min(start.Day(), 30)
		d2 := end.Day()
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2)
	default:
		return Days(start, end) / 365.0
	}
}

func thirty360(start, end time.Time, d1, d2 int) float64 {
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}

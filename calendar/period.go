package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeUnit is the unit of a Period.
type TimeUnit int

const (
	Days TimeUnit = iota
	Weeks
	Months
	Years
)

func (u TimeUnit) String() string {
	switch u {
	case Days:
		return "D"
	case Weeks:
		return "W"
	case Months:
		return "M"
	case Years:
		return "Y"
	default:
		return "?"
	}
}

// Period is a tenor such as 2D, 3M or 10Y.
type Period struct {
	N    int
	Unit TimeUnit
}

// NewPeriod returns n units.
func NewPeriod(n int, unit TimeUnit) Period {
	return Period{N: n, Unit: unit}
}

// ParsePeriod converts tenor strings like "2D", "1W", "3M", "18M", "10Y".
func ParsePeriod(tenor string) (Period, error) {
	s := strings.TrimSpace(strings.ToUpper(tenor))
	if len(s) < 2 {
		return Period{}, fmt.Errorf("ParsePeriod: invalid tenor %q", tenor)
	}
	var unit TimeUnit
	switch s[len(s)-1] {
	case 'D':
		unit = Days
	case 'W':
		unit = Weeks
	case 'M':
		unit = Months
	case 'Y':
		unit = Years
	default:
		return Period{}, fmt.Errorf("ParsePeriod: invalid unit in tenor %q", tenor)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Period{}, fmt.Errorf("ParsePeriod: invalid length in tenor %q: %w", tenor, err)
	}
	return Period{N: n, Unit: unit}, nil
}

// MustParsePeriod is ParsePeriod for literals known to be valid.
func MustParsePeriod(tenor string) Period {
	p, err := ParsePeriod(tenor)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Period) String() string {
	return strconv.Itoa(p.N) + p.Unit.String()
}

// Months returns the length in months for month and year periods, 0 otherwise.
func (p Period) Months() int {
	switch p.Unit {
	case Months:
		return p.N
	case Years:
		return 12 * p.N
	default:
		return 0
	}
}

// Years returns an approximate length in years, used only for ordering and thresholds.
func (p Period) Years() float64 {
	switch p.Unit {
	case Days:
		return float64(p.N) / 365.0
	case Weeks:
		return float64(p.N) * 7.0 / 365.0
	case Months:
		return float64(p.N) / 12.0
	default:
		return float64(p.N)
	}
}

// Less orders periods. Month/year and day/week pairs compare exactly; mixed pairs use
// the day ranges a month can span (28 to 31 days) and fall back to approximate years.
func (p Period) Less(q Period) bool {
	pm, qm := p.Unit >= Months, q.Unit >= Months
	switch {
	case pm && qm:
		return p.Months() < q.Months()
	case !pm && !qm:
		return p.days() < q.days()
	case pm:
		if 31*p.Months() < q.days() {
			return true
		}
		if 28*p.Months() >= q.days() {
			return false
		}
	default:
		if p.days() < 28*q.Months() {
			return true
		}
		if p.days() >= 31*q.Months() {
			return false
		}
	}
	return p.Years() < q.Years()
}

func (p Period) days() int {
	if p.Unit == Weeks {
		return 7 * p.N
	}
	return p.N
}

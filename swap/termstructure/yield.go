// Package termstructure defines the discount-curve contract shared by indexes, rate helpers
// and the bootstrapper.
package termstructure

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/oiscurve/handle"
	"github.com/meenmo/oiscurve/utils"
)

// ErrOutOfRange is returned for queries outside a curve's range when extrapolation is off.
var ErrOutOfRange = errors.New("query outside curve range")

// YieldCurve provides discount factors from its reference date onwards.
type YieldCurve interface {
	ReferenceDate() time.Time
	DayCount() utils.DayCount
	// MaxDate is the last date covered without extrapolation.
	MaxDate() time.Time
	AllowsExtrapolation() bool
	// Discount returns the discount factor for date d.
	Discount(d time.Time) (float64, error)
	// DiscountTime returns the discount factor for time t in years on the curve's day count.
	DiscountTime(t float64) (float64, error)
}

// Handle is a relinkable reference to the curve consumers should read.
type Handle = handle.Relinkable[YieldCurve]

// NewHandle returns an empty relinkable curve handle.
func NewHandle() *Handle {
	return handle.NewRelinkable[YieldCurve]()
}

// TimeFromReference converts d to curve time.
func TimeFromReference(c YieldCurve, d time.Time) float64 {
	return c.DayCount().YearFraction(c.ReferenceDate(), d)
}

// CheckRange validates that date d can be queried on c.
func CheckRange(c YieldCurve, d time.Time) error {
	if d.Before(c.ReferenceDate()) {
		return fmt.Errorf("date %s before reference date %s: %w",
			d.Format(utils.DateLayout), c.ReferenceDate().Format(utils.DateLayout), ErrOutOfRange)
	}
	if d.After(c.MaxDate()) && !c.AllowsExtrapolation() {
		return fmt.Errorf("date %s after max date %s: %w",
			d.Format(utils.DateLayout), c.MaxDate().Format(utils.DateLayout), ErrOutOfRange)
	}
	return nil
}

// ForwardRate is the simply compounded rate between d1 and d2 accrued on dc.
func ForwardRate(c YieldCurve, d1, d2 time.Time, dc utils.DayCount) (float64, error) {
	if !d2.After(d1) {
		return 0, fmt.Errorf("ForwardRate: end %s not after start %s", d2.Format(utils.DateLayout), d1.Format(utils.DateLayout))
	}
	df1, err := c.Discount(d1)
	if err != nil {
		return 0, fmt.Errorf("ForwardRate: %w", err)
	}
	df2, err := c.Discount(d2)
	if err != nil {
		return 0, fmt.Errorf("ForwardRate: %w", err)
	}
	return (df1/df2 - 1) / dc.YearFraction(d1, d2), nil
}

// ZeroRate is the continuously compounded zero rate to d on the curve's day count.
func ZeroRate(c YieldCurve, d time.Time) (float64, error) {
	t := TimeFromReference(c, d)
	df, err := c.Discount(d)
	if err != nil {
		return 0, fmt.Errorf("ZeroRate: %w", err)
	}
	if t == 0 {
		// Instantaneous rate from a one-day step.
		t = c.DayCount().YearFraction(d, d.AddDate(0, 0, 1))
		df1, err := c.Discount(d.AddDate(0, 0, 1))
		if err != nil {
			return 0, fmt.Errorf("ZeroRate: %w", err)
		}
		return -math.Log(df1/df) / t, nil
	}
	return -math.Log(df) / t, nil
}

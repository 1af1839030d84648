package termstructure

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/oiscurve/utils"
)

// FlatForward is a curve with a constant continuously compounded rate.
type FlatForward struct {
	reference time.Time
	rate      float64
	dc        utils.DayCount
}

// NewFlatForward returns a flat curve with continuous rate r.
func NewFlatForward(reference time.Time, r float64, dc utils.DayCount) *FlatForward {
	return &FlatForward{reference: reference, rate: r, dc: dc}
}

func (f *FlatForward) ReferenceDate() time.Time { return f.reference }
func (f *FlatForward) DayCount() utils.DayCount { return f.dc }
func (f *FlatForward) MaxDate() time.Time {
	return time.Date(2199, time.December, 31, 0, 0, 0, 0, time.UTC)
}
func (f *FlatForward) AllowsExtrapolation() bool { return true }

// Rate returns the continuous zero rate.
func (f *FlatForward) Rate() float64 { return f.rate }

func (f *FlatForward) Discount(d time.Time) (float64, error) {
	if err := CheckRange(f, d); err != nil {
		return 0, fmt.Errorf("FlatForward: %w", err)
	}
	return f.DiscountTime(TimeFromReference(f, d))
}

func (f *FlatForward) DiscountTime(t float64) (float64, error) {
	if t < 0 {
		return 0, fmt.Errorf("FlatForward: negative time %g: %w", t, ErrOutOfRange)
	}
	return math.Exp(-f.rate * t), nil
}

// Package index models floating-rate indexes that forecast from a relinkable curve.
package index

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/oiscurve/calendar"
	"github.com/meenmo/oiscurve/handle"
	"github.com/meenmo/oiscurve/swap/termstructure"
	"github.com/meenmo/oiscurve/utils"
)

var (
	// ErrMissingFixing is returned when a past fixing is needed but not stored.
	ErrMissingFixing = errors.New("missing historical fixing")
	// ErrInvalidFixingDate is returned for fixing dates that are not business days.
	ErrInvalidFixingDate = errors.New("invalid fixing date")
)

// Config holds the static conventions of an overnight index.
type Config struct {
	Name           string
	Currency       string
	FixingCalendar calendar.Calendar
	// FixingDays is the lag, in business days, between fixing and value date.
	FixingDays int
	DayCount   utils.DayCount
	// EvaluationDate separates historical fixings from forecasts.
	EvaluationDate time.Time
}

// Overnight is an overnight rate index forecasting from whatever curve its handle holds.
type Overnight struct {
	cfg     Config
	curve   handle.Handle[termstructure.YieldCurve]
	fixings *MapFixings
}

// NewOvernight builds an index reading forecasts through h. h may still be empty.
func NewOvernight(cfg Config, h handle.Handle[termstructure.YieldCurve]) (*Overnight, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("NewOvernight: name is required")
	}
	if cfg.FixingCalendar == nil {
		return nil, fmt.Errorf("NewOvernight: %s: fixing calendar is required", cfg.Name)
	}
	if cfg.FixingDays < 0 {
		return nil, fmt.Errorf("NewOvernight: %s: negative fixing days %d", cfg.Name, cfg.FixingDays)
	}
	if cfg.EvaluationDate.IsZero() {
		return nil, fmt.Errorf("NewOvernight: %s: evaluation date is required", cfg.Name)
	}
	if cfg.DayCount == "" {
		cfg.DayCount = utils.Act360
	}
	if h == nil {
		h = termstructure.NewHandle()
	}
	return &Overnight{cfg: cfg, curve: h, fixings: NewMapFixings(nil)}, nil
}

// Clone returns an index with the same conventions and fixing history reading through h.
func (o *Overnight) Clone(h handle.Handle[termstructure.YieldCurve]) *Overnight {
	return &Overnight{cfg: o.cfg, curve: h, fixings: o.fixings}
}

func (o *Overnight) Name() string                                    { return o.cfg.Name }
func (o *Overnight) Currency() string                                { return o.cfg.Currency }
func (o *Overnight) FixingCalendar() calendar.Calendar               { return o.cfg.FixingCalendar }
func (o *Overnight) FixingDays() int                                 { return o.cfg.FixingDays }
func (o *Overnight) DayCount() utils.DayCount                        { return o.cfg.DayCount }
func (o *Overnight) EvaluationDate() time.Time                       { return o.cfg.EvaluationDate }
func (o *Overnight) Handle() handle.Handle[termstructure.YieldCurve] { return o.curve }

// FixingDate is valueDate moved back by the fixing lag.
func (o *Overnight) FixingDate(valueDate time.Time) time.Time {
	return calendar.AddBusinessDays(o.cfg.FixingCalendar, valueDate, -o.cfg.FixingDays)
}

// ValueDate is fixingDate moved forward by the fixing lag.
func (o *Overnight) ValueDate(fixingDate time.Time) time.Time {
	return calendar.AddBusinessDays(o.cfg.FixingCalendar, fixingDate, o.cfg.FixingDays)
}

// MaturityDate is the next business day after valueDate.
func (o *Overnight) MaturityDate(valueDate time.Time) time.Time {
	return calendar.AddBusinessDays(o.cfg.FixingCalendar, valueDate, 1)
}

// ForwardRate is the simply compounded rate between start and end implied by the current
// curve.
func (o *Overnight) ForwardRate(start, end time.Time) (float64, error) {
	crv, err := o.curve.Current()
	if err != nil {
		return 0, fmt.Errorf("%s: forward rate: %w", o.cfg.Name, err)
	}
	r, err := termstructure.ForwardRate(crv, start, end, o.cfg.DayCount)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", o.cfg.Name, err)
	}
	return r, nil
}

// ForecastFixing projects the fixing published on fixingDate from the curve.
func (o *Overnight) ForecastFixing(fixingDate time.Time) (float64, error) {
	v := o.ValueDate(fixingDate)
	return o.ForwardRate(v, o.MaturityDate(v))
}

// Fixing returns the rate for fixingDate: the stored fixing for past dates, the stored or
// forecast fixing on the evaluation date, and a forecast afterwards.
func (o *Overnight) Fixing(fixingDate time.Time) (float64, error) {
	if !o.cfg.FixingCalendar.IsBusinessDay(fixingDate) {
		return 0, fmt.Errorf("%s: %s: %w", o.cfg.Name, fixingDate.Format(utils.DateLayout), ErrInvalidFixingDate)
	}
	eval := o.cfg.EvaluationDate
	if fixingDate.After(eval) {
		return o.ForecastFixing(fixingDate)
	}
	if r, ok := o.fixings.RateOn(fixingDate); ok {
		return r, nil
	}
	if fixingDate.Equal(eval) {
		return o.ForecastFixing(fixingDate)
	}
	return 0, fmt.Errorf("%s: %s: %w", o.cfg.Name, fixingDate.Format(utils.DateLayout), ErrMissingFixing)
}

// AddFixing stores a published fixing. Clones share the history.
func (o *Overnight) AddFixing(date time.Time, rate float64) error {
	if !o.cfg.FixingCalendar.IsBusinessDay(date) {
		return fmt.Errorf("%s: AddFixing %s: %w", o.cfg.Name, date.Format(utils.DateLayout), ErrInvalidFixingDate)
	}
	o.fixings.Add(date, rate)
	return nil
}

// LoadFixings copies every fixing src knows for the given dates.
func (o *Overnight) LoadFixings(src FixingSource, dates []time.Time) int {
	n := 0
	for _, d := range dates {
		if r, ok := src.RateOn(d); ok && o.cfg.FixingCalendar.IsBusinessDay(d) {
			o.fixings.Add(d, r)
			n++
		}
	}
	return n
}

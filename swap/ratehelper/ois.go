// Package ratehelper turns quoted instruments into bootstrap constraints on a trial curve.
package ratehelper

import (
	"fmt"
	"time"

	"github.com/meenmo/oiscurve/calendar"
	"github.com/meenmo/oiscurve/handle"
	"github.com/meenmo/oiscurve/quote"
	"github.com/meenmo/oiscurve/swap/index"
	"github.com/meenmo/oiscurve/swap/market"
	"github.com/meenmo/oiscurve/swap/termstructure"
	"github.com/meenmo/oiscurve/utils"
)

// RateHelper is one bootstrap constraint: a quoted instrument whose fair value can be
// computed on a trial curve.
type RateHelper interface {
	// PillarDate is the date whose discount factor the helper determines.
	PillarDate() time.Time
	EarliestDate() time.Time
	// LatestDate is the last date the helper reads from a curve.
	LatestDate() time.Time
	QuoteValue() (float64, error)
	ImpliedValue(trial termstructure.YieldCurve) (float64, error)
	// QuoteError is QuoteValue minus ImpliedValue.
	QuoteError(trial termstructure.YieldCurve) (float64, error)
}

// OISOption customizes an OIS helper.
type OISOption func(*oisSettings)

type oisSettings struct {
	telescopic      bool
	paymentLag      int
	convention      calendar.BusinessDayConvention
	paymentCalendar calendar.Calendar
	endOfMonth      bool
	frequency       *market.Frequency
	policy          market.TenorPolicy
	spread          float64
	discount        handle.Handle[termstructure.YieldCurve]
	forwardStart    calendar.Period
	pillar          Pillar
	customPillar    time.Time
	averaging       Averaging
}

// Pillar selects the date an OIS helper pins on the curve.
type Pillar int

const (
	// PillarLastRelevant is the later of maturity and the last payment date.
	PillarLastRelevant Pillar = iota
	// PillarMaturity is the end of the last accrual period.
	PillarMaturity
	// PillarCustom is a caller supplied date between the earliest and last relevant dates.
	PillarCustom
)

func (p Pillar) String() string {
	switch p {
	case PillarMaturity:
		return "MaturityDate"
	case PillarCustom:
		return "CustomDate"
	default:
		return "LastRelevantDate"
	}
}

// Averaging is how daily overnight fixings combine into a coupon.
type Averaging int

const (
	CompoundAveraging Averaging = iota
	// SimpleAveraging sums the daily accruals without compounding.
	SimpleAveraging
)

func (a Averaging) String() string {
	if a == SimpleAveraging {
		return "Simple"
	}
	return "Compound"
}

// WithTelescopicValueDates compounds each coupon from two discount factors instead of
// daily fixings.
func WithTelescopicValueDates(on bool) OISOption {
	return func(s *oisSettings) { s.telescopic = on }
}

// WithPaymentLag delays payments by n business days after each accrual end.
func WithPaymentLag(n int) OISOption {
	return func(s *oisSettings) { s.paymentLag = n }
}

// WithPaymentConvention sets the roll convention of accrual and payment dates.
func WithPaymentConvention(c calendar.BusinessDayConvention) OISOption {
	return func(s *oisSettings) { s.convention = c }
}

// WithPaymentCalendar sets the calendar of payment dates. Accrual dates stay on the index
// fixing calendar.
func WithPaymentCalendar(c calendar.Calendar) OISOption {
	return func(s *oisSettings) { s.paymentCalendar = c }
}

func WithEndOfMonth(on bool) OISOption {
	return func(s *oisSettings) { s.endOfMonth = on }
}

// WithPaymentFrequency fixes the frequency regardless of the tenor policy.
func WithPaymentFrequency(f market.Frequency) OISOption {
	return func(s *oisSettings) { s.frequency = &f }
}

// WithTenorPolicy selects the payment frequency from tenor ranges.
func WithTenorPolicy(p market.TenorPolicy) OISOption {
	return func(s *oisSettings) { s.policy = p }
}

// WithOvernightSpread adds a spread to every overnight coupon.
func WithOvernightSpread(spread float64) OISOption {
	return func(s *oisSettings) { s.spread = spread }
}

// WithDiscountHandle discounts cash flows on an exogenous curve once h is linked.
func WithDiscountHandle(h handle.Handle[termstructure.YieldCurve]) OISOption {
	return func(s *oisSettings) { s.discount = h }
}

// WithForwardStart starts accrual p after spot. Negative periods roll preceding.
func WithForwardStart(p calendar.Period) OISOption {
	return func(s *oisSettings) { s.forwardStart = p }
}

// WithPillar selects the pillar date. custom is read only for PillarCustom.
func WithPillar(choice Pillar, custom time.Time) OISOption {
	return func(s *oisSettings) {
		s.pillar = choice
		s.customPillar = custom
	}
}

func WithAveraging(a Averaging) OISOption {
	return func(s *oisSettings) { s.averaging = a }
}

// WithConvention applies every leg setting of conv.
func WithConvention(conv market.OISConvention) OISOption {
	return func(s *oisSettings) {
		s.telescopic = conv.Telescopic
		s.paymentLag = conv.PaymentLag
		s.convention = conv.PaymentConvention
		s.paymentCalendar = conv.PaymentCalendar
		s.endOfMonth = conv.EndOfMonth
		s.policy = conv.Policy
	}
}

// OISRateHelper bootstraps a discount factor from a quoted OIS fixed rate.
type OISRateHelper struct {
	tenor     calendar.Period
	quote     quote.Quote
	index     *index.Overnight
	forecast  *termstructure.Handle
	settings  oisSettings
	frequency market.Frequency

	spot     time.Time
	schedule []SchedulePeriod
	days     [][]overnightAccrual
	earliest time.Time
	maturity time.Time
	latest   time.Time
	pillar   time.Time
}

// NewOIS builds a helper for an OIS of the given tenor starting at spot, or later with
// WithForwardStart. Accrual dates roll on the index fixing calendar and payment dates on the
// payment calendar. All dates are fixed here from the index evaluation date, rolled onto a
// fixing business day first.
func NewOIS(settlementDays int, tenor calendar.Period, q quote.Quote, idx *index.Overnight, opts ...OISOption) (*OISRateHelper, error) {
	if q == nil {
		return nil, fmt.Errorf("NewOIS: %s: nil quote", tenor)
	}
	if idx == nil {
		return nil, fmt.Errorf("NewOIS: %s: nil index", tenor)
	}
	if tenor.N <= 0 {
		return nil, fmt.Errorf("NewOIS: invalid tenor %s", tenor)
	}
	s := oisSettings{
		convention:      calendar.ModifiedFollowing,
		paymentCalendar: idx.FixingCalendar(),
		policy:          market.SinglePaymentPolicy,
	}
	for _, opt := range opts {
		opt(&s)
	}

	freq := s.policy.FrequencyFor(tenor)
	if s.frequency != nil {
		freq = *s.frequency
	}

	forecast := termstructure.NewHandle()
	h := &OISRateHelper{
		tenor:     tenor,
		quote:     q,
		index:     idx.Clone(forecast),
		forecast:  forecast,
		settings:  s,
		frequency: freq,
	}

	fixCal := idx.FixingCalendar()
	ref := calendar.AdjustFollowing(fixCal, idx.EvaluationDate())
	h.spot = calendar.AddBusinessDays(fixCal, ref, settlementDays)

	start := calendar.Advance(calendar.Null, h.spot, s.forwardStart, calendar.Unadjusted, false)
	if s.forwardStart.N < 0 {
		start = calendar.AdjustWith(fixCal, start, calendar.Preceding)
	} else {
		start = calendar.AdjustFollowing(fixCal, start)
	}
	maturity := calendar.Advance(calendar.Null, start, tenor, calendar.Unadjusted, false)
	if s.endOfMonth {
		maturity = calendar.Advance(fixCal, start, tenor, calendar.ModifiedFollowing, true)
	}
	sched, err := generateScheduleBackward(start, maturity, scheduleRule{
		Frequency:       freq,
		Calendar:        fixCal,
		Convention:      s.convention,
		EndOfMonth:      s.endOfMonth,
		PaymentCalendar: s.paymentCalendar,
		PaymentLag:      s.paymentLag,
	})
	if err != nil {
		return nil, fmt.Errorf("NewOIS: %s: %w", tenor, err)
	}
	h.schedule = sched
	h.days = make([][]overnightAccrual, len(sched))
	for i, p := range sched {
		h.days[i] = h.accruals(p)
	}
	h.earliest = sched[0].StartDate
	h.maturity = sched[len(sched)-1].EndDate
	h.latest = h.maturity
	if pay := sched[len(sched)-1].PayDate; pay.After(h.latest) {
		h.latest = pay
	}

	switch s.pillar {
	case PillarMaturity:
		h.pillar = h.maturity
	case PillarCustom:
		if s.customPillar.Before(h.earliest) || s.customPillar.After(h.latest) {
			return nil, fmt.Errorf("NewOIS: %s: pillar %s outside [%s, %s]", tenor,
				s.customPillar.Format(utils.DateLayout), h.earliest.Format(utils.DateLayout), h.latest.Format(utils.DateLayout))
		}
		h.pillar = s.customPillar
	default:
		h.pillar = h.latest
	}
	return h, nil
}

// NewOISFromConvention builds a helper with every setting taken from conv.
func NewOISFromConvention(conv market.OISConvention, tenor calendar.Period, q quote.Quote, idx *index.Overnight) (*OISRateHelper, error) {
	return NewOIS(conv.SettlementDays, tenor, q, idx, WithConvention(conv))
}

func (h *OISRateHelper) PillarDate() time.Time       { return h.pillar }
func (h *OISRateHelper) EarliestDate() time.Time     { return h.earliest }
func (h *OISRateHelper) LatestDate() time.Time       { return h.latest }
func (h *OISRateHelper) MaturityDate() time.Time     { return h.maturity }
func (h *OISRateHelper) SpotDate() time.Time         { return h.spot }
func (h *OISRateHelper) Tenor() calendar.Period      { return h.tenor }
func (h *OISRateHelper) Frequency() market.Frequency { return h.frequency }
func (h *OISRateHelper) Quote() quote.Quote          { return h.quote }
func (h *OISRateHelper) Schedule() []SchedulePeriod {
	return append([]SchedulePeriod(nil), h.schedule...)
}

func (h *OISRateHelper) String() string {
	return fmt.Sprintf("OIS %s %s", h.tenor, h.index.Name())
}

func (h *OISRateHelper) QuoteValue() (float64, error) {
	v, err := h.quote.Value()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", h, err)
	}
	return v, nil
}

func (h *OISRateHelper) QuoteError(trial termstructure.YieldCurve) (float64, error) {
	q, err := h.QuoteValue()
	if err != nil {
		return 0, err
	}
	implied, err := h.ImpliedValue(trial)
	if err != nil {
		return 0, err
	}
	return q - implied, nil
}

// ImpliedValue is the fair fixed rate of the swap with forecasts read from trial.
func (h *OISRateHelper) ImpliedValue(trial termstructure.YieldCurve) (float64, error) {
	if trial == nil {
		return 0, fmt.Errorf("%s: ImpliedValue: %w", h, handle.ErrUnlinked)
	}
	h.forecast.LinkTo(trial)

	disc := trial
	if h.settings.discount != nil && !h.settings.discount.Empty() {
		d, err := h.settings.discount.Current()
		if err != nil {
			return 0, fmt.Errorf("%s: discount curve: %w", h, err)
		}
		disc = d
	}

	dc := h.index.DayCount()
	var floatPV, annuity float64
	for i, p := range h.schedule {
		df, err := disc.Discount(p.PayDate)
		if err != nil {
			return 0, fmt.Errorf("%s: ImpliedValue: %w", h, err)
		}
		interest, err := h.interest(trial, i)
		if err != nil {
			return 0, fmt.Errorf("%s: ImpliedValue: %w", h, err)
		}
		tau := dc.YearFraction(p.StartDate, p.EndDate)
		floatPV += (interest + h.settings.spread*tau) * df
		annuity += tau * df
	}
	if annuity == 0 {
		return 0, fmt.Errorf("%s: ImpliedValue: zero annuity", h)
	}
	return floatPV / annuity, nil
}

// overnightAccrual is one day of a compounded coupon with its fixing resolved up front.
type overnightAccrual struct {
	valueDate  time.Time
	tau        float64
	fixingDate time.Time
	// forecast window of the fixing published on fixingDate
	fwdStart, fwdEnd time.Time
}

func (h *OISRateHelper) accruals(p SchedulePeriod) []overnightAccrual {
	cal := h.index.FixingCalendar()
	dc := h.index.DayCount()

	valueDates := calendar.BusinessDaysBetween(cal, p.StartDate, p.EndDate)
	if len(valueDates) == 0 || !valueDates[0].Equal(p.StartDate) {
		valueDates = append([]time.Time{p.StartDate}, valueDates...)
	}
	valueDates = append(valueDates, p.EndDate)

	out := make([]overnightAccrual, 0, len(valueDates)-1)
	for i := 0; i < len(valueDates)-1; i++ {
		v0, v1 := valueDates[i], valueDates[i+1]
		fd := h.index.FixingDate(v0)
		fs := h.index.ValueDate(fd)
		out = append(out, overnightAccrual{
			valueDate:  v0,
			tau:        dc.YearFraction(v0, v1),
			fixingDate: fd,
			fwdStart:   fs,
			fwdEnd:     h.index.MaturityDate(fs),
		})
	}
	return out
}

// interest is the overnight interest on one unit of notional over period i.
func (h *OISRateHelper) interest(trial termstructure.YieldCurve, i int) (float64, error) {
	eval := h.index.EvaluationDate()
	end := h.schedule[i].EndDate
	simple := h.settings.averaging == SimpleAveraging

	growth, sum := 1.0, 0.0
	for _, a := range h.days[i] {
		var r float64
		var err error
		if !a.fixingDate.After(eval) {
			r, err = h.index.Fixing(a.fixingDate)
		} else if h.settings.telescopic && !simple {
			df0, err := trial.Discount(a.valueDate)
			if err != nil {
				return 0, err
			}
			df1, err := trial.Discount(end)
			if err != nil {
				return 0, err
			}
			return growth*df0/df1 - 1, nil
		} else {
			r, err = h.index.ForwardRate(a.fwdStart, a.fwdEnd)
		}
		if err != nil {
			return 0, err
		}
		growth *= 1 + r*a.tau
		sum += r * a.tau
	}
	if simple {
		return sum, nil
	}
	return growth - 1, nil
}

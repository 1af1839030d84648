package ratehelper_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/oiscurve/calendar"
	"github.com/meenmo/oiscurve/handle"
	"github.com/meenmo/oiscurve/quote"
	"github.com/meenmo/oiscurve/swap/index"
	"github.com/meenmo/oiscurve/swap/market"
	"github.com/meenmo/oiscurve/swap/ratehelper"
	"github.com/meenmo/oiscurve/swap/termstructure"
	"github.com/meenmo/oiscurve/utils"
)

var evalDate = utils.Date(2023, time.June, 15)

func clicp(t *testing.T, eval time.Time) *index.Overnight {
	t.Helper()
	idx, err := index.NewOvernight(market.CLPOIS.IndexConfig(eval), nil)
	require.NoError(t, err)
	return idx
}

func TestNewOIS_Dates(t *testing.T) {
	t.Parallel()

	h, err := ratehelper.NewOISFromConvention(market.CLPOIS, calendar.MustParsePeriod("3M"), quote.New("3M", 0.05), clicp(t, evalDate))
	require.NoError(t, err)

	// Accrual rolls on the Chilean calendar, where the US holiday of 2023-06-19 is a
	// business day.
	assert.Equal(t, utils.Date(2023, time.June, 19), h.SpotDate())
	assert.Equal(t, utils.Date(2023, time.June, 19), h.EarliestDate())
	// 2023-09-18 and 19 are Chilean holidays.
	assert.Equal(t, utils.Date(2023, time.September, 20), h.MaturityDate())
	assert.Equal(t, h.MaturityDate(), h.LatestDate())
	assert.Equal(t, h.LatestDate(), h.PillarDate())
	assert.Equal(t, market.FreqOnce, h.Frequency())
	require.Len(t, h.Schedule(), 1)
}

func TestNewOIS_PaymentLagMovesPillar(t *testing.T) {
	t.Parallel()

	h, err := ratehelper.NewOIS(2, calendar.MustParsePeriod("6M"), quote.New("6M", 0.05), clicp(t, evalDate),
		ratehelper.WithPaymentCalendar(calendar.CLP), ratehelper.WithPaymentLag(2))
	require.NoError(t, err)
	assert.True(t, h.PillarDate().After(h.MaturityDate()))
	assert.Equal(t, calendar.AddBusinessDays(calendar.CLP, h.MaturityDate(), 2), h.PillarDate())
	assert.Equal(t, h.PillarDate(), h.LatestDate())
}

func TestNewOIS_PaymentDatesOnPaymentCalendar(t *testing.T) {
	t.Parallel()

	// Spot 2023-04-04, so the 3M accrual ends on US Independence Day, a Chilean business day.
	h, err := ratehelper.NewOISFromConvention(market.CLPOIS, calendar.MustParsePeriod("3M"), quote.New("3M", 0.05),
		clicp(t, utils.Date(2023, time.March, 31)))
	require.NoError(t, err)

	assert.Equal(t, utils.Date(2023, time.April, 4), h.EarliestDate())
	assert.Equal(t, utils.Date(2023, time.July, 4), h.MaturityDate())
	sched := h.Schedule()
	require.Len(t, sched, 1)
	assert.Equal(t, utils.Date(2023, time.July, 5), sched[0].PayDate)
	assert.Equal(t, utils.Date(2023, time.July, 5), h.PillarDate())
	assert.Equal(t, h.PillarDate(), h.LatestDate())
}

func TestNewOIS_WeekendEvaluationRollsForward(t *testing.T) {
	t.Parallel()

	saturday := utils.Date(2023, time.June, 17)
	idx := clicp(t, saturday)
	h, err := ratehelper.NewOISFromConvention(market.CLPOIS, calendar.MustParsePeriod("3M"), quote.New("3M", 0.05), idx)
	require.NoError(t, err)

	// Rolled to Monday the 19th, then two Chilean business days skipping the 21st.
	assert.Equal(t, utils.Date(2023, time.June, 22), h.SpotDate())
	assert.Equal(t, h.SpotDate(), h.EarliestDate())

	// Every fixing is forecast, so no history is needed.
	_, err = h.ImpliedValue(termstructure.NewFlatForward(saturday, 0.05, utils.Act360))
	require.NoError(t, err)
}

func TestNewOIS_ForwardStart(t *testing.T) {
	t.Parallel()

	idx := clicp(t, evalDate)
	h, err := ratehelper.NewOIS(2, calendar.MustParsePeriod("3M"), quote.New("3M", 0.05), idx,
		ratehelper.WithForwardStart(calendar.MustParsePeriod("1M")))
	require.NoError(t, err)
	assert.Equal(t, utils.Date(2023, time.June, 19), h.SpotDate())
	assert.Equal(t, utils.Date(2023, time.July, 19), h.EarliestDate())
	assert.Equal(t, utils.Date(2023, time.October, 19), h.MaturityDate())

	// Two calendar days back from spot is a Saturday, rolled preceding.
	back, err := ratehelper.NewOIS(2, calendar.MustParsePeriod("3M"), quote.New("3M", 0.05), idx,
		ratehelper.WithForwardStart(calendar.NewPeriod(-2, calendar.Days)))
	require.NoError(t, err)
	assert.Equal(t, utils.Date(2023, time.June, 16), back.EarliestDate())
}

func TestNewOIS_PillarChoice(t *testing.T) {
	t.Parallel()

	idx := clicp(t, evalDate)
	tenor := calendar.MustParsePeriod("6M")
	lag := ratehelper.WithPaymentLag(2)

	maturity, err := ratehelper.NewOIS(2, tenor, quote.New("6M", 0.05), idx, lag,
		ratehelper.WithPillar(ratehelper.PillarMaturity, time.Time{}))
	require.NoError(t, err)
	assert.Equal(t, maturity.MaturityDate(), maturity.PillarDate())
	assert.True(t, maturity.LatestDate().After(maturity.PillarDate()))

	custom := utils.Date(2023, time.October, 2)
	h, err := ratehelper.NewOIS(2, tenor, quote.New("6M", 0.05), idx, lag,
		ratehelper.WithPillar(ratehelper.PillarCustom, custom))
	require.NoError(t, err)
	assert.Equal(t, custom, h.PillarDate())

	_, err = ratehelper.NewOIS(2, tenor, quote.New("6M", 0.05), idx,
		ratehelper.WithPillar(ratehelper.PillarCustom, utils.Date(2025, time.January, 2)))
	require.Error(t, err)
	_, err = ratehelper.NewOIS(2, tenor, quote.New("6M", 0.05), idx,
		ratehelper.WithPillar(ratehelper.PillarCustom, evalDate))
	require.Error(t, err)
}

func TestNewOIS_FrequencyAndStub(t *testing.T) {
	t.Parallel()

	idx := clicp(t, evalDate)
	h, err := ratehelper.NewOIS(2, calendar.MustParsePeriod("7M"), quote.New("7M", 0.05), idx,
		ratehelper.WithPaymentFrequency(market.FreqQuarterly))
	require.NoError(t, err)
	sched := h.Schedule()
	require.Len(t, sched, 3)
	// Rolled back from maturity, so the stub is at the front.
	assert.Less(t, utils.Days(sched[0].StartDate, sched[0].EndDate), 40.0)

	long, err := ratehelper.NewOIS(2, calendar.MustParsePeriod("3Y"), quote.New("3Y", 0.05), idx,
		ratehelper.WithTenorPolicy(market.CLPTenorPolicy))
	require.NoError(t, err)
	assert.Equal(t, market.FreqSemi, long.Frequency())
	assert.Len(t, long.Schedule(), 6)

	_, err = ratehelper.NewOIS(2, calendar.Period{}, quote.New("x", 0.05), idx)
	require.Error(t, err)
}

func TestImpliedValue_SinglePeriod(t *testing.T) {
	t.Parallel()

	idx := clicp(t, evalDate)
	h, err := ratehelper.NewOISFromConvention(market.CLPOIS, calendar.MustParsePeriod("6M"), quote.New("6M", 0.06), idx)
	require.NoError(t, err)

	flat := termstructure.NewFlatForward(evalDate, 0.05, utils.Act360)
	v, err := h.ImpliedValue(flat)
	require.NoError(t, err)

	tau := utils.Act360.YearFraction(h.EarliestDate(), h.MaturityDate())
	assert.InDelta(t, (math.Exp(0.05*tau)-1)/tau, v, 1e-12)

	qe, err := h.QuoteError(flat)
	require.NoError(t, err)
	assert.InDelta(t, 0.06-v, qe, 1e-15)
}

func TestImpliedValue_TelescopicMatchesDaily(t *testing.T) {
	t.Parallel()

	idx := clicp(t, evalDate)
	flat := termstructure.NewFlatForward(evalDate, 0.07, utils.Act360)
	tenor := calendar.MustParsePeriod("2Y")

	daily, err := ratehelper.NewOISFromConvention(market.CLPOIS, tenor, quote.New("2Y", 0.07), idx)
	require.NoError(t, err)
	tele, err := ratehelper.NewOIS(2, tenor, quote.New("2Y", 0.07), idx,
		ratehelper.WithConvention(market.CLPOIS), ratehelper.WithTelescopicValueDates(true))
	require.NoError(t, err)

	a, err := daily.ImpliedValue(flat)
	require.NoError(t, err)
	b, err := tele.ImpliedValue(flat)
	require.NoError(t, err)
	assert.InDelta(t, a, b, 1e-12)
}

func TestImpliedValue_SimpleAveraging(t *testing.T) {
	t.Parallel()

	idx := clicp(t, evalDate)
	flat := termstructure.NewFlatForward(evalDate, 0.05, utils.Act360)
	tenor := calendar.MustParsePeriod("6M")

	compound, err := ratehelper.NewOISFromConvention(market.CLPOIS, tenor, quote.New("6M", 0.05), idx)
	require.NoError(t, err)
	simple, err := ratehelper.NewOIS(2, tenor, quote.New("6M", 0.05), idx,
		ratehelper.WithConvention(market.CLPOIS), ratehelper.WithAveraging(ratehelper.SimpleAveraging))
	require.NoError(t, err)
	// Telescoping only applies to compounding.
	tele, err := ratehelper.NewOIS(2, tenor, quote.New("6M", 0.05), idx,
		ratehelper.WithConvention(market.CLPOIS), ratehelper.WithAveraging(ratehelper.SimpleAveraging),
		ratehelper.WithTelescopicValueDates(true))
	require.NoError(t, err)

	start, end := simple.EarliestDate(), simple.MaturityDate()
	dates := append(calendar.BusinessDaysBetween(calendar.CLP, start, end), end)
	sum := 0.0
	for i := 0; i < len(dates)-1; i++ {
		sum += math.Exp(0.05*utils.Act360.YearFraction(dates[i], dates[i+1])) - 1
	}
	want := sum / utils.Act360.YearFraction(start, end)

	s, err := simple.ImpliedValue(flat)
	require.NoError(t, err)
	assert.InDelta(t, want, s, 1e-12)

	c, err := compound.ImpliedValue(flat)
	require.NoError(t, err)
	assert.Less(t, s, c)

	ts, err := tele.ImpliedValue(flat)
	require.NoError(t, err)
	assert.InDelta(t, s, ts, 1e-15)
}

func TestImpliedValue_OvernightSpread(t *testing.T) {
	t.Parallel()

	idx := clicp(t, evalDate)
	flat := termstructure.NewFlatForward(evalDate, 0.05, utils.Act360)
	tenor := calendar.MustParsePeriod("1Y")

	plain, err := ratehelper.NewOISFromConvention(market.CLPOIS, tenor, quote.New("1Y", 0.05), idx)
	require.NoError(t, err)
	spread, err := ratehelper.NewOIS(2, tenor, quote.New("1Y", 0.05), idx,
		ratehelper.WithConvention(market.CLPOIS), ratehelper.WithOvernightSpread(0.0025))
	require.NoError(t, err)

	a, err := plain.ImpliedValue(flat)
	require.NoError(t, err)
	b, err := spread.ImpliedValue(flat)
	require.NoError(t, err)
	assert.InDelta(t, 0.0025, b-a, 1e-14)
}

func TestImpliedValue_ExogenousDiscounting(t *testing.T) {
	t.Parallel()

	idx := clicp(t, evalDate)
	forecast := termstructure.NewFlatForward(evalDate, 0.05, utils.Act360)
	disc := termstructure.NewHandle()

	h, err := ratehelper.NewOIS(2, calendar.MustParsePeriod("5Y"), quote.New("5Y", 0.05), idx,
		ratehelper.WithConvention(market.CLPOIS), ratehelper.WithDiscountHandle(disc))
	require.NoError(t, err)

	self, err := h.ImpliedValue(forecast)
	require.NoError(t, err)

	disc.LinkTo(termstructure.NewFlatForward(evalDate, 0.02, utils.Act360))
	other, err := h.ImpliedValue(forecast)
	require.NoError(t, err)

	assert.NotEqual(t, self, other)
	assert.InDelta(t, self, other, 1e-3)
}

func TestImpliedValue_PastFixings(t *testing.T) {
	t.Parallel()

	idx := clicp(t, evalDate)
	flat := termstructure.NewFlatForward(evalDate, 0.05, utils.Act360)

	// Starting today, the first two days fix before the evaluation date.
	h, err := ratehelper.NewOIS(0, calendar.MustParsePeriod("1M"), quote.New("1M", 0.05), idx)
	require.NoError(t, err)
	assert.Equal(t, evalDate, h.EarliestDate())

	_, err = h.ImpliedValue(flat)
	require.ErrorIs(t, err, index.ErrMissingFixing)

	require.NoError(t, idx.AddFixing(utils.Date(2023, time.June, 13), 0.1125))
	require.NoError(t, idx.AddFixing(utils.Date(2023, time.June, 14), 0.1125))
	v, err := h.ImpliedValue(flat)
	require.NoError(t, err)
	assert.Greater(t, v, 0.05)
}

func TestImpliedValue_Errors(t *testing.T) {
	t.Parallel()

	idx := clicp(t, evalDate)
	h, err := ratehelper.NewOISFromConvention(market.CLPOIS, calendar.MustParsePeriod("3M"), quote.NewUnset("CHSWPC Curncy"), idx)
	require.NoError(t, err)

	_, err = h.ImpliedValue(nil)
	require.ErrorIs(t, err, handle.ErrUnlinked)

	_, err = h.QuoteValue()
	require.ErrorIs(t, err, quote.ErrUnset)

	short := termstructure.NewFlatForward(evalDate.AddDate(0, 1, 0), 0.05, utils.Act360)
	_, err = h.ImpliedValue(short)
	require.ErrorIs(t, err, termstructure.ErrOutOfRange)
}

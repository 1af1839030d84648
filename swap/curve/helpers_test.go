package curve_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/oiscurve/calendar"
	"github.com/meenmo/oiscurve/quote"
	"github.com/meenmo/oiscurve/swap/index"
	"github.com/meenmo/oiscurve/swap/market"
	"github.com/meenmo/oiscurve/swap/ratehelper"
	"github.com/meenmo/oiscurve/swap/termstructure"
)

// clpPrices are percent quotes for the camara strip as of mid June 2023.
var clpPrices = map[string]float64{
	"CHSWPC Curncy":  10.995,
	"CHSWPF Curncy":  10.44,
	"CHSWPI Curncy":  9.755,
	"CHSWP1 Curncy":  9.028,
	"CHSWP1F Curncy": 7.84,
	"CHSWP2 Curncy":  6.88,
	"CHSWP3 Curncy":  6.015,
	"CHSWP4 Curncy":  5.545,
	"CHSWP5 Curncy":  5.267,
	"CHSWP6 Curncy":  5.155,
	"CHSWP7 Curncy":  5.085,
	"CHSWP8 Curncy":  5.045,
	"CHSWP9 Curncy":  5.01,
	"CHSWP10 Curncy": 5.015,
	"CHSWP12 Curncy": 5.055,
	"CHSWP15 Curncy": 5.075,
	"CHSWP20 Curncy": 5.145,
}

func newIndex(t *testing.T, eval time.Time) (*index.Overnight, *termstructure.Handle) {
	t.Helper()
	h := termstructure.NewHandle()
	idx, err := index.NewOvernight(market.CLPOIS.IndexConfig(eval), h)
	require.NoError(t, err)
	return idx, h
}

func oisHelper(t *testing.T, idx *index.Overnight, tenor string, rate float64) *ratehelper.OISRateHelper {
	t.Helper()
	h, err := ratehelper.NewOISFromConvention(market.CLPOIS, calendar.MustParsePeriod(tenor), quote.New(tenor, rate), idx)
	require.NoError(t, err)
	return h
}

func clpHelpers(t *testing.T, idx *index.Overnight) []ratehelper.RateHelper {
	t.Helper()
	out := make([]ratehelper.RateHelper, 0, len(market.CLPOISTickers))
	for _, q := range market.CLPOISTickers {
		src := quote.New(q.Ticker, clpPrices[q.Ticker])
		h, err := ratehelper.NewOISFromConvention(market.CLPOIS, calendar.MustParsePeriod(q.Tenor), quote.Divide(src, 100), idx)
		require.NoError(t, err)
		out = append(out, h)
	}
	return out
}

// stubHelper has a fixed pillar and implied value fn(df at pillar). A non-nil err is
// returned from every ImpliedValue call.
type stubHelper struct {
	pillar time.Time
	q      quote.Quote
	fn     func(df float64) float64
	err    error
}

func (s stubHelper) PillarDate() time.Time        { return s.pillar }
func (s stubHelper) EarliestDate() time.Time      { return s.pillar }
func (s stubHelper) LatestDate() time.Time        { return s.pillar }
func (s stubHelper) QuoteValue() (float64, error) { return s.q.Value() }

func (s stubHelper) ImpliedValue(trial termstructure.YieldCurve) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	df, err := trial.Discount(s.pillar)
	if err != nil {
		return 0, err
	}
	return s.fn(df), nil
}

func (s stubHelper) QuoteError(trial termstructure.YieldCurve) (float64, error) {
	q, err := s.QuoteValue()
	if err != nil {
		return 0, err
	}
	v, err := s.ImpliedValue(trial)
	return q - v, err
}

// Package build assembles and bootstraps one OIS curve per evaluation date.
package build

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/oiscurve/calendar"
	"github.com/meenmo/oiscurve/marketdata"
	"github.com/meenmo/oiscurve/swap/config"
	"github.com/meenmo/oiscurve/swap/curve"
	"github.com/meenmo/oiscurve/swap/index"
	"github.com/meenmo/oiscurve/swap/market"
	"github.com/meenmo/oiscurve/swap/ratehelper"
	"github.com/meenmo/oiscurve/swap/termstructure"
	"github.com/meenmo/oiscurve/utils"
)

// FixingLoader returns published fixings of an index before a date, keyed by ISO date.
type FixingLoader func(ctx context.Context, indexName string, until time.Time) (map[string]float64, error)

// Request describes a batch of curve builds.
type Request struct {
	Convention  market.OISConvention
	Instruments []market.Quoted
	Dates       []time.Time
	Prices      marketdata.Source
	Fixings     FixingLoader
	Missing     marketdata.MissingPolicy
	// Divisor turns quoted prices into decimals.
	Divisor float64
	Config  config.Config
	Logger  zerolog.Logger
}

// HelperReport describes one instrument after the bootstrap.
type HelperReport struct {
	Tenor     string
	Ticker    string
	Frequency market.Frequency
	Earliest  time.Time
	Latest    time.Time
	Pillar    time.Time
	Quote     float64
	Implied   float64
	Residual  float64
}

// NodeReport is a curve node with its zero rate.
type NodeReport struct {
	curve.Node
	Zero float64
}

// Result is the outcome for one evaluation date.
type Result struct {
	EvaluationDate time.Time
	// EarliestDates are the distinct first accrual dates of the helpers, ascending.
	EarliestDates  []time.Time
	// Advanced is the evaluation date moved by the settlement days on the curve calendar.
	Advanced       time.Time
	Passes         int
	Helpers        []HelperReport
	Nodes          []NodeReport
	Curve          *curve.Piecewise
}

// FromQuoteFile fills a request from a quote file and its instrument preset.
func FromQuoteFile(f *marketdata.QuoteFile) (Request, error) {
	conv, tickers, ok := market.Conventions(f.InstrumentSet)
	if !ok {
		return Request{}, fmt.Errorf("FromQuoteFile: unknown instrument set %q", f.InstrumentSet)
	}
	if len(f.Instruments) > 0 {
		tickers = make([]market.Quoted, len(f.Instruments))
		for i, in := range f.Instruments {
			tickers[i] = market.Quoted{Tenor: in.Tenor, Ticker: in.Ticker}
		}
	}
	dates, err := f.Dates()
	if err != nil {
		return Request{}, fmt.Errorf("FromQuoteFile: %w", err)
	}
	fixings := index.NewMapFixings(f.Fixings)
	return Request{
		Convention:  conv,
		Instruments: tickers,
		Dates:       dates,
		Prices:      f,
		Fixings: func(_ context.Context, _ string, until time.Time) (map[string]float64, error) {
			out := make(map[string]float64)
			for _, d := range fixings.Dates() {
				if d.Before(until) {
					r, _ := fixings.RateOn(d)
					out[d.Format(utils.DateLayout)] = r
				}
			}
			return out, nil
		},
		Missing: f.MissingPolicy(),
		Divisor: f.Divisor,
		Config:  config.DefaultConfig,
		Logger:  zerolog.Nop(),
	}, nil
}

// Batch builds every date concurrently. Each date gets its own quotes, index and helpers.
// Results follow the order of req.Dates.
func Batch(ctx context.Context, req Request) ([]*Result, error) {
	if len(req.Dates) == 0 {
		return nil, fmt.Errorf("Batch: no evaluation dates")
	}
	results := make([]*Result, len(req.Dates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, d := range req.Dates {
		i, d := i, d
		g.Go(func() error {
			res, err := One(ctx, req, d)
			if err != nil {
				return fmt.Errorf("%s: %w", d.Format(utils.DateLayout), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// One builds the curve for a single evaluation date.
func One(ctx context.Context, req Request, evalDate time.Time) (*Result, error) {
	log := req.Logger.With().Str("eval_date", evalDate.Format(utils.DateLayout)).Logger()
	divisor := req.Divisor
	if divisor == 0 {
		divisor = 100
	}

	provider := marketdata.NewProvider(req.Missing)
	if req.Prices != nil {
		n, err := provider.Refresh(ctx, req.Prices, evalDate)
		if err != nil {
			return nil, err
		}
		log.Debug().Int("prices", n).Msg("quotes loaded")
	}

	forecast := termstructure.NewHandle()
	idx, err := index.NewOvernight(req.Convention.IndexConfig(evalDate), forecast)
	if err != nil {
		return nil, err
	}
	if req.Fixings != nil {
		raw, err := req.Fixings(ctx, idx.Name(), evalDate)
		if err != nil {
			return nil, err
		}
		fixings := index.NewMapFixings(raw)
		n := idx.LoadFixings(fixings, fixings.Dates())
		log.Debug().Int("fixings", n).Msg("fixings loaded")
	}

	helpers := make([]ratehelper.RateHelper, 0, len(req.Instruments))
	ois := make([]*ratehelper.OISRateHelper, 0, len(req.Instruments))
	for _, in := range req.Instruments {
		tenor, err := calendar.ParsePeriod(in.Tenor)
		if err != nil {
			return nil, err
		}
		q, err := provider.Derived(in.Ticker, divisor)
		if err != nil {
			return nil, err
		}
		h, err := ratehelper.NewOISFromConvention(req.Convention, tenor, q, idx)
		if err != nil {
			return nil, err
		}
		helpers = append(helpers, h)
		ois = append(ois, h)
	}
	if len(helpers) == 0 {
		return nil, fmt.Errorf("no instruments")
	}

	// The curve lives on the payment calendar, as the helpers' cash flows do.
	cal := req.Convention.PaymentCalendar
	c, err := curve.Build(evalDate, cal, helpers, req.Convention.DayCount,
		curve.WithConfig(req.Config), curve.WithLogger(log))
	if err != nil {
		return nil, err
	}
	forecast.LinkTo(c)

	settle := calendar.NewPeriod(req.Convention.SettlementDays, calendar.Days)
	res := &Result{
		EvaluationDate: evalDate,
		Advanced:       calendar.Advance(cal, evalDate, settle, calendar.Following, false),
		Passes:         c.Passes(),
		Curve:          c,
	}
	seen := make(map[time.Time]bool)
	for i, h := range ois {
		if d := h.EarliestDate(); !seen[d] {
			seen[d] = true
			res.EarliestDates = append(res.EarliestDates, d)
		}
		qv, err := h.QuoteValue()
		if err != nil {
			return nil, err
		}
		implied, err := h.ImpliedValue(c)
		if err != nil {
			return nil, err
		}
		res.Helpers = append(res.Helpers, HelperReport{
			Tenor:     req.Instruments[i].Tenor,
			Ticker:    req.Instruments[i].Ticker,
			Frequency: h.Frequency(),
			Earliest:  h.EarliestDate(),
			Latest:    h.LatestDate(),
			Pillar:    h.PillarDate(),
			Quote:     qv,
			Implied:   implied,
			Residual:  implied - qv,
		})
	}
	for _, n := range c.Nodes() {
		z, err := c.ZeroRate(n.Date)
		if err != nil {
			return nil, err
		}
		res.Nodes = append(res.Nodes, NodeReport{Node: n, Zero: z})
	}
	utils.SortDates(res.EarliestDates)
	return res, nil
}

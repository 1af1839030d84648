// Package curve bootstraps log-cubic discount curves from rate helpers.
package curve

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/oiscurve/calendar"
	"github.com/meenmo/oiscurve/interpolation"
	"github.com/meenmo/oiscurve/swap/ratehelper"
	"github.com/meenmo/oiscurve/swap/termstructure"
	"github.com/meenmo/oiscurve/utils"
)

// Node is a solved pillar of the curve.
type Node struct {
	Date time.Time
	Time float64
	DF   float64
}

// Piecewise is a discount curve interpolated log-cubically between its nodes. Node 0 is the
// reference date with a discount factor of one.
type Piecewise struct {
	referenceDate time.Time
	cal           calendar.Calendar
	dayCount      utils.DayCount

	dates  []time.Time
	times  []float64
	dfs    []float64
	interp *interpolation.LogCubic

	scheme        interpolation.Scheme
	extrapolation Extrapolation
	allowExtrap   bool

	helpers []ratehelper.RateHelper
	dropped []ratehelper.RateHelper
	passes  int
}

// FromNodes builds a curve directly from discount factors. The first node must be the
// reference date with a discount factor of one.
func FromNodes(cal calendar.Calendar, dc utils.DayCount, nodes []Node, opts ...Option) (*Piecewise, error) {
	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, fmt.Errorf("FromNodes: %w", err)
		}
	}
	if len(nodes) < 2 {
		return nil, fmt.Errorf("FromNodes: %d nodes: %w", len(nodes), interpolation.ErrTooFewPoints)
	}
	if nodes[0].DF != 1 {
		return nil, fmt.Errorf("FromNodes: first node discount factor %g, want 1", nodes[0].DF)
	}
	ref := nodes[0].Date
	dates := make([]time.Time, len(nodes))
	times := make([]float64, len(nodes))
	dfs := make([]float64, len(nodes))
	for i, n := range nodes {
		if i > 0 && !n.Date.After(dates[i-1]) {
			return nil, fmt.Errorf("FromNodes: node %s: %w", n.Date.Format(utils.DateLayout), ErrNonMonotonicPillars)
		}
		dates[i] = n.Date
		times[i] = dc.YearFraction(ref, n.Date)
		dfs[i] = n.DF
	}
	return newPiecewise(ref, cal, dc, dates, times, dfs, s)
}

func newPiecewise(ref time.Time, cal calendar.Calendar, dc utils.DayCount, dates []time.Time, times, dfs []float64, s settings) (*Piecewise, error) {
	interp, err := interpolation.NewLogCubic(times, dfs, s.scheme)
	if err != nil {
		return nil, err
	}
	return &Piecewise{
		referenceDate: ref,
		cal:           cal,
		dayCount:      dc,
		dates:         dates,
		times:         times,
		dfs:           dfs,
		interp:        interp,
		scheme:        s.scheme,
		extrapolation: s.extrapolation,
		allowExtrap:   s.allowExtrap,
	}, nil
}

func (c *Piecewise) ReferenceDate() time.Time    { return c.referenceDate }
func (c *Piecewise) Calendar() calendar.Calendar { return c.cal }
func (c *Piecewise) DayCount() utils.DayCount    { return c.dayCount }

// MaxDate is the last pillar date.
func (c *Piecewise) MaxDate() time.Time { return c.dates[len(c.dates)-1] }

func (c *Piecewise) AllowsExtrapolation() bool { return c.allowExtrap }

// EnableExtrapolation allows queries past the last pillar.
func (c *Piecewise) EnableExtrapolation() { c.allowExtrap = true }

func (c *Piecewise) DisableExtrapolation() { c.allowExtrap = false }

// Extrapolation returns the policy used past the last pillar.
func (c *Piecewise) Extrapolation() Extrapolation { return c.extrapolation }

// Scheme returns the interpolation scheme.
func (c *Piecewise) Scheme() interpolation.Scheme { return c.scheme }

// Nodes returns a copy of the solved nodes, reference node first.
func (c *Piecewise) Nodes() []Node {
	out := make([]Node, len(c.dates))
	for i := range c.dates {
		out[i] = Node{Date: c.dates[i], Time: c.times[i], DF: c.dfs[i]}
	}
	return out
}

// Dates returns the node dates.
func (c *Piecewise) Dates() []time.Time {
	return append([]time.Time(nil), c.dates...)
}

// Helpers returns the helpers the curve was bootstrapped from, sorted by pillar.
func (c *Piecewise) Helpers() []ratehelper.RateHelper {
	return append([]ratehelper.RateHelper(nil), c.helpers...)
}

// Dropped returns helpers discarded for sharing a pillar with a later-listed helper.
func (c *Piecewise) Dropped() []ratehelper.RateHelper {
	return append([]ratehelper.RateHelper(nil), c.dropped...)
}

// Passes is the number of bootstrap sweeps the curve needed.
func (c *Piecewise) Passes() int { return c.passes }

// Discount returns the discount factor for d.
func (c *Piecewise) Discount(d time.Time) (float64, error) {
	if err := termstructure.CheckRange(c, d); err != nil {
		return 0, err
	}
	return c.discountTime(termstructure.TimeFromReference(c, d)), nil
}

// DiscountTime returns the discount factor at t years from the reference date.
func (c *Piecewise) DiscountTime(t float64) (float64, error) {
	tMax := c.times[len(c.times)-1]
	if t < 0 {
		return 0, fmt.Errorf("time %g before reference: %w", t, termstructure.ErrOutOfRange)
	}
	if t > tMax && !c.allowExtrap {
		return 0, fmt.Errorf("time %g after last pillar %g: %w", t, tMax, termstructure.ErrOutOfRange)
	}
	return c.discountTime(t), nil
}

func (c *Piecewise) discountTime(t float64) float64 {
	last := len(c.times) - 1
	tMax := c.times[last]
	if t <= tMax {
		return c.interp.Value(t)
	}
	switch c.extrapolation {
	case SplineExtrapolation:
		return c.interp.Value(t)
	case FlatZero:
		zero := -math.Log(c.dfs[last]) / tMax
		return math.Exp(-zero * t)
	default:
		fwd := -c.interp.LogDerivative(tMax)
		return c.dfs[last] * math.Exp(-fwd*(t-tMax))
	}
}

// ZeroRate is the continuously compounded zero rate to d.
func (c *Piecewise) ZeroRate(d time.Time) (float64, error) {
	return termstructure.ZeroRate(c, d)
}

// ForwardRate is the simply compounded forward between d1 and d2 accrued on dc.
func (c *Piecewise) ForwardRate(d1, d2 time.Time, dc utils.DayCount) (float64, error) {
	return termstructure.ForwardRate(c, d1, d2, dc)
}

package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/meenmo/oiscurve/calendar"
	"github.com/meenmo/oiscurve/solver"
	"github.com/meenmo/oiscurve/swap/ratehelper"
	"github.com/meenmo/oiscurve/utils"
)

var (
	// ErrNonMonotonicPillars is returned when sorted pillar dates are not strictly increasing
	// or do not fall after the reference date.
	ErrNonMonotonicPillars = errors.New("pillar dates not strictly increasing")
	// ErrRootNotFound is returned when a node cannot be solved or the passes do not settle.
	ErrRootNotFound = errors.New("bootstrap root not found")
)

// Build bootstraps a discount curve whose nodes reprice every helper.
//
// Helpers are sorted by pillar date. Each node's discount factor is solved so that its
// helper's implied value matches its quote, with the other nodes held fixed. Because cubic
// pieces depend on neighbouring nodes, sweeps over all nodes repeat until every helper
// reprices within the configured accuracy.
func Build(referenceDate time.Time, cal calendar.Calendar, helpers []ratehelper.RateHelper, dc utils.DayCount, opts ...Option) (*Piecewise, error) {
	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
	}
	log := s.logger.With().Str("component", "bootstrap").Str("reference", referenceDate.Format(utils.DateLayout)).Logger()

	used, dropped, err := orderHelpers(referenceDate, helpers, s.duplicates)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	for _, h := range dropped {
		log.Warn().Str("pillar", h.PillarDate().Format(utils.DateLayout)).Msg("dropping helper with duplicate pillar")
	}

	quotes := make([]float64, len(used))
	for i, h := range used {
		if quotes[i], err = h.QuoteValue(); err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
	}

	n := len(used) + 1
	dates := make([]time.Time, n)
	times := make([]float64, n)
	dfs := make([]float64, n)
	dates[0], times[0], dfs[0] = referenceDate, 0, 1
	for i, h := range used {
		dates[i+1] = h.PillarDate()
		times[i+1] = dc.YearFraction(referenceDate, dates[i+1])
		if !(times[i+1] > times[i]) {
			return nil, fmt.Errorf("Build: pillar %s has no positive time step: %w",
				dates[i+1].Format(utils.DateLayout), ErrNonMonotonicPillars)
		}
	}

	opt := solver.Options{
		Accuracy:       s.cfg.Accuracy / 100,
		XAccuracy:      solver.DefaultOptions.XAccuracy,
		MaxEvaluations: s.cfg.MaxIterations,
	}

	// Trial curves extrapolate: a helper pinned before its last payment still reads past
	// its own node.
	ts := s
	ts.allowExtrap = true
	trial := func(k int) (*Piecewise, error) {
		return newPiecewise(referenceDate, cal, dc, dates[:k], times[:k], dfs[:k], ts)
	}

	for pass := 1; pass <= s.cfg.MaxPasses; pass++ {
		maxChange := 0.0
		for i := 1; i < n; i++ {
			h := used[i-1]
			// The first sweep extends the curve one node at a time.
			k := n
			guess := dfs[i]
			if pass == 1 {
				k = i + 1
				guess = dfs[i-1]
			}

			dt := times[i] - times[i-1]
			lo := math.Max(s.cfg.MinDiscountFactor, dfs[i-1]*math.Exp(-s.cfg.MaxRate*dt))
			hi := dfs[i-1] * math.Exp(s.cfg.MaxRate*dt)
			previous := dfs[i]

			objective := func(df float64) (float64, error) {
				dfs[i] = df
				c, err := trial(k)
				if err != nil {
					return 0, err
				}
				implied, err := h.ImpliedValue(c)
				if err != nil {
					return 0, err
				}
				return implied - quotes[i-1], nil
			}
			res, err := solver.Solve(objective, guess, (hi-lo)/100, lo, hi, opt)
			if err != nil {
				if errors.Is(err, solver.ErrNotBracketed) || errors.Is(err, solver.ErrNoConvergence) {
					return nil, fmt.Errorf("Build: pillar %s pass %d: %w: %w",
						dates[i].Format(utils.DateLayout), pass, ErrRootNotFound, err)
				}
				return nil, fmt.Errorf("Build: pillar %s pass %d: %w",
					dates[i].Format(utils.DateLayout), pass, err)
			}
			dfs[i] = res.Root
			if pass > 1 {
				maxChange = math.Max(maxChange, math.Abs(res.Root-previous))
			}
			log.Debug().
				Int("pass", pass).
				Str("pillar", dates[i].Format(utils.DateLayout)).
				Float64("df", res.Root).
				Float64("residual", res.Residual).
				Int("evaluations", res.Evaluations).
				Msg("node solved")
		}

		full, err := trial(n)
		if err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
		worst, err := maxResidual(full, used, quotes)
		if err != nil {
			return nil, fmt.Errorf("Build: pass %d: %w", pass, err)
		}
		log.Debug().Int("pass", pass).Float64("max_residual", worst).Float64("max_df_change", maxChange).Msg("pass complete")
		if worst <= s.cfg.Accuracy {
			full.allowExtrap = s.allowExtrap
			full.helpers = used
			full.dropped = dropped
			full.passes = pass
			log.Info().Int("nodes", n).Int("passes", pass).Float64("max_residual", worst).Msg("curve built")
			return full, nil
		}
	}
	return nil, fmt.Errorf("Build: no convergence after %d passes: %w", s.cfg.MaxPasses, ErrRootNotFound)
}

// orderHelpers sorts helpers by pillar and enforces strictly increasing pillars after the
// reference date.
func orderHelpers(ref time.Time, helpers []ratehelper.RateHelper, policy DuplicatePolicy) (used, dropped []ratehelper.RateHelper, err error) {
	if len(helpers) == 0 {
		return nil, nil, errors.New("no rate helpers")
	}
	sorted := append([]ratehelper.RateHelper(nil), helpers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PillarDate().Before(sorted[j].PillarDate())
	})

	for _, h := range sorted {
		p := h.PillarDate()
		if !p.After(ref) {
			return nil, nil, fmt.Errorf("pillar %s not after reference date %s: %w",
				p.Format(utils.DateLayout), ref.Format(utils.DateLayout), ErrNonMonotonicPillars)
		}
		if k := len(used); k > 0 && used[k-1].PillarDate().Equal(p) {
			if policy != DropDuplicatePillars {
				return nil, nil, fmt.Errorf("duplicate pillar %s: %w", p.Format(utils.DateLayout), ErrNonMonotonicPillars)
			}
			dropped = append(dropped, used[k-1])
			used[k-1] = h
			continue
		}
		used = append(used, h)
	}
	return used, dropped, nil
}

func maxResidual(c *Piecewise, helpers []ratehelper.RateHelper, quotes []float64) (float64, error) {
	worst := 0.0
	for i, h := range helpers {
		implied, err := h.ImpliedValue(c)
		if err != nil {
			return 0, err
		}
		worst = math.Max(worst, math.Abs(implied-quotes[i]))
	}
	return worst, nil
}

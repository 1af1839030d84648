package curve

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/meenmo/oiscurve/interpolation"
	"github.com/meenmo/oiscurve/swap/config"
)

// Extrapolation selects how discount factors continue past the last pillar.
type Extrapolation string

const (
	// FlatForward keeps the instantaneous forward of the last pillar.
	FlatForward Extrapolation = "flat_forward"
	// SplineExtrapolation extends the last cubic piece.
	SplineExtrapolation Extrapolation = "spline"
	// FlatZero keeps the zero rate of the last pillar.
	FlatZero Extrapolation = "flat_zero"
)

// ParseExtrapolation accepts the config spellings.
func ParseExtrapolation(s string) (Extrapolation, error) {
	switch e := Extrapolation(s); e {
	case FlatForward, SplineExtrapolation, FlatZero:
		return e, nil
	case "":
		return FlatForward, nil
	default:
		return "", fmt.Errorf("ParseExtrapolation: unknown policy %q", s)
	}
}

// DuplicatePolicy decides what happens when two helpers share a pillar date.
type DuplicatePolicy string

const (
	// RejectDuplicatePillars fails the build with ErrNonMonotonicPillars.
	RejectDuplicatePillars DuplicatePolicy = "reject"
	// DropDuplicatePillars keeps the helper listed last for each pillar.
	DropDuplicatePillars DuplicatePolicy = "drop"
)

type settings struct {
	cfg           config.Config
	scheme        interpolation.Scheme
	extrapolation Extrapolation
	duplicates    DuplicatePolicy
	allowExtrap   bool
	logger        zerolog.Logger
}

func defaultSettings() settings {
	return settings{
		cfg:           config.DefaultConfig,
		scheme:        interpolation.Natural,
		extrapolation: FlatForward,
		duplicates:    RejectDuplicatePillars,
		logger:        zerolog.Nop(),
	}
}

// Option customizes Build.
type Option func(*settings) error

// WithConfig applies solver limits and every curve setting in cfg.
func WithConfig(cfg config.Config) Option {
	return func(s *settings) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		scheme, err := interpolation.ParseScheme(cfg.Interpolation)
		if err != nil {
			return err
		}
		extrap, err := ParseExtrapolation(cfg.Extrapolation)
		if err != nil {
			return err
		}
		s.cfg = cfg
		s.scheme = scheme
		s.extrapolation = extrap
		s.duplicates = DuplicatePolicy(cfg.DuplicatePillars)
		s.allowExtrap = cfg.AllowExtrapolation
		return nil
	}
}

// WithLogger receives the bootstrap's pass and node events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) error {
		s.logger = l
		return nil
	}
}

// WithScheme selects the spline through the log discount factors.
func WithScheme(scheme interpolation.Scheme) Option {
	return func(s *settings) error {
		s.scheme = scheme
		return nil
	}
}

// WithExtrapolation selects the policy past the last pillar.
func WithExtrapolation(e Extrapolation) Option {
	return func(s *settings) error {
		s.extrapolation = e
		return nil
	}
}

// WithDuplicatePillars selects how helpers sharing a pillar are handled.
func WithDuplicatePillars(p DuplicatePolicy) Option {
	return func(s *settings) error {
		switch p {
		case RejectDuplicatePillars, DropDuplicatePillars:
			s.duplicates = p
			return nil
		default:
			return fmt.Errorf("WithDuplicatePillars: unknown policy %q", p)
		}
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds solver and curve construction parameters.
type Config struct {
	// Accuracy is the re-pricing tolerance of each node solve and the DF change that ends
	// the bootstrap passes.
	Accuracy float64 `mapstructure:"accuracy"`

	// MaxIterations caps objective evaluations per node solve.
	MaxIterations int `mapstructure:"max_iterations"`

	// MaxPasses caps full sweeps over the nodes when the interpolation is global.
	MaxPasses int `mapstructure:"max_passes"`

	// MaxRate bounds the search bracket for node i to df(i-1)*exp(±MaxRate*dt).
	MaxRate float64 `mapstructure:"max_rate"`

	// MinDiscountFactor is the floor of the search bracket.
	MinDiscountFactor float64 `mapstructure:"min_discount_factor"`

	// Interpolation is "spline" (natural) or "kruger".
	Interpolation string `mapstructure:"interpolation"`

	// Extrapolation is "flat_forward", "spline" or "flat_zero".
	Extrapolation string `mapstructure:"extrapolation"`

	AllowExtrapolation bool `mapstructure:"allow_extrapolation"`

	// DuplicatePillars is "reject" or "drop".
	DuplicatePillars string `mapstructure:"duplicate_pillars"`

	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	Accuracy:           1e-12,
	MaxIterations:      100,
	MaxPasses:          50,
	MaxRate:            1.0,
	MinDiscountFactor:  1e-9,
	Interpolation:      "spline",
	Extrapolation:      "flat_forward",
	AllowExtrapolation: false,
	DuplicatePillars:   "reject",
	LogLevel:           "info",
}

// EnvPrefix prefixes environment overrides, e.g. OISCURVE_MAX_PASSES.
const EnvPrefix = "OISCURVE"

// Load reads a YAML file on top of DefaultConfig. An empty path uses defaults and
// environment overrides only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config.Load: reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig
	v.SetDefault("accuracy", d.Accuracy)
	v.SetDefault("max_iterations", d.MaxIterations)
	v.SetDefault("max_passes", d.MaxPasses)
	v.SetDefault("max_rate", d.MaxRate)
	v.SetDefault("min_discount_factor", d.MinDiscountFactor)
	v.SetDefault("interpolation", d.Interpolation)
	v.SetDefault("extrapolation", d.Extrapolation)
	v.SetDefault("allow_extrapolation", d.AllowExtrapolation)
	v.SetDefault("duplicate_pillars", d.DuplicatePillars)
	v.SetDefault("log_level", d.LogLevel)
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if !(c.Accuracy > 0) {
		errs = append(errs, fmt.Errorf("accuracy must be positive, got %g", c.Accuracy))
	}
	if c.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations))
	}
	if c.MaxPasses <= 0 {
		errs = append(errs, fmt.Errorf("max_passes must be positive, got %d", c.MaxPasses))
	}
	if !(c.MaxRate > 0) {
		errs = append(errs, fmt.Errorf("max_rate must be positive, got %g", c.MaxRate))
	}
	if !(c.MinDiscountFactor > 0 && c.MinDiscountFactor < 1) {
		errs = append(errs, fmt.Errorf("min_discount_factor must be in (0, 1), got %g", c.MinDiscountFactor))
	}
	switch c.Interpolation {
	case "spline", "kruger":
	default:
		errs = append(errs, fmt.Errorf("unknown interpolation %q", c.Interpolation))
	}
	switch c.Extrapolation {
	case "flat_forward", "spline", "flat_zero":
	default:
		errs = append(errs, fmt.Errorf("unknown extrapolation %q", c.Extrapolation))
	}
	switch c.DuplicatePillars {
	case "reject", "drop":
	default:
		errs = append(errs, fmt.Errorf("unknown duplicate_pillars %q", c.DuplicatePillars))
	}
	return errors.Join(errs...)
}

package marketdata

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meenmo/oiscurve/utils"
)

// Instrument pairs a tenor with the ticker quoting it.
type Instrument struct {
	Tenor  string `yaml:"tenor"`
	Ticker string `yaml:"ticker"`
}

// QuoteFile is the YAML input of a curve run.
type QuoteFile struct {
	// InstrumentSet names a convention preset such as CLP_OIS.
	InstrumentSet   string   `yaml:"instrument_set"`
	EvaluationDates []string `yaml:"evaluation_dates"`
	// Missing is "unset", "zero" or "error".
	Missing string `yaml:"missing"`
	// Divisor converts prices to decimals; 100 for percent quotes.
	Divisor float64 `yaml:"divisor"`
	// Base prices apply to every evaluation date unless ByDate overrides them.
	Base        map[string]float64            `yaml:"prices"`
	ByDate      map[string]map[string]float64 `yaml:"by_date"`
	Instruments []Instrument                  `yaml:"instruments"`
	// Fixings are published overnight fixings keyed by ISO date, in decimals.
	Fixings map[string]float64 `yaml:"fixings"`
}

// LoadFile reads and validates a quote file.
func LoadFile(path string) (*QuoteFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadFile: %w", err)
	}
	return ParseQuoteFile(raw)
}

// ParseQuoteFile decodes YAML quote data.
func ParseQuoteFile(raw []byte) (*QuoteFile, error) {
	var f QuoteFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("ParseQuoteFile: %w", err)
	}
	if f.Divisor == 0 {
		f.Divisor = 100
	}
	if _, err := ParseMissingPolicy(f.Missing); err != nil {
		return nil, fmt.Errorf("ParseQuoteFile: %w", err)
	}
	if _, err := f.Dates(); err != nil {
		return nil, err
	}
	for d := range f.ByDate {
		if _, err := utils.ParseDate(d); err != nil {
			return nil, fmt.Errorf("ParseQuoteFile: by_date: %w", err)
		}
	}
	for d := range f.Fixings {
		if _, err := utils.ParseDate(d); err != nil {
			return nil, fmt.Errorf("ParseQuoteFile: fixings: %w", err)
		}
	}
	return &f, nil
}

// Dates returns the evaluation dates in file order.
func (f *QuoteFile) Dates() ([]time.Time, error) {
	out := make([]time.Time, 0, len(f.EvaluationDates))
	for _, s := range f.EvaluationDates {
		d, err := utils.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("QuoteFile.Dates: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

// MissingPolicy returns the parsed missing-ticker policy.
func (f *QuoteFile) MissingPolicy() MissingPolicy {
	p, _ := ParseMissingPolicy(f.Missing)
	return p
}

// Prices merges the default prices with the overrides for asOf.
func (f *QuoteFile) Prices(_ context.Context, asOf time.Time) (map[string]float64, error) {
	out := make(map[string]float64, len(f.Base))
	for t, v := range f.Base {
		out[t] = v
	}
	for t, v := range f.ByDate[asOf.Format(utils.DateLayout)] {
		out[t] = v
	}
	return out, nil
}

// FixingDates returns the dates with a published fixing, sorted.
func (f *QuoteFile) FixingDates() []time.Time {
	out := make([]time.Time, 0, len(f.Fixings))
	for s := range f.Fixings {
		d, err := utils.ParseDate(s)
		if err == nil {
			out = append(out, d)
		}
	}
	utils.SortDates(out)
	return out
}

package market

import (
	"fmt"
	"strings"

	"github.com/meenmo/oiscurve/calendar"
)

// TenorRule applies Frequency to every tenor up to and including MaxTenor.
type TenorRule struct {
	MaxTenor  calendar.Period
	Frequency Frequency
}

// TenorPolicy maps a swap tenor to its payment frequency. Rules are checked in order;
// tenors past the last rule get Longer.
type TenorPolicy struct {
	Rules  []TenorRule
	Longer Frequency
}

// FrequencyFor returns the payment frequency of a swap with the given tenor.
func (p TenorPolicy) FrequencyFor(tenor calendar.Period) Frequency {
	for _, r := range p.Rules {
		if !r.MaxTenor.Less(tenor) {
			return r.Frequency
		}
	}
	return p.Longer
}

func (p TenorPolicy) String() string {
	parts := make([]string, 0, len(p.Rules)+1)
	for _, r := range p.Rules {
		parts = append(parts, fmt.Sprintf("<=%s:%s", r.MaxTenor, r.Frequency))
	}
	parts = append(parts, fmt.Sprintf("longer:%s", p.Longer))
	return strings.Join(parts, " ")
}

// CLPTenorPolicy pays short Chilean camara swaps once at maturity and longer ones
// semiannually.
var CLPTenorPolicy = TenorPolicy{
	Rules:  []TenorRule{{MaxTenor: calendar.NewPeriod(18, calendar.Months), Frequency: FreqOnce}},
	Longer: FreqSemi,
}

// SinglePaymentPolicy pays every tenor once.
var SinglePaymentPolicy = TenorPolicy{Longer: FreqOnce}

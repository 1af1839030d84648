package market

// ReferenceIndex enumerates supported overnight benchmarks.
type ReferenceIndex string

const (
	CLICP ReferenceIndex = "CLICP"
	SOFR  ReferenceIndex = "SOFR"
	ESTR  ReferenceIndex = "ESTR"
	TONAR ReferenceIndex = "TONAR"
)

// Frequency enumerates payment frequencies in months. FreqOnce pays a single coupon at
// maturity.
type Frequency int

const (
	FreqOnce      Frequency = 0
	FreqMonthly   Frequency = 1
	FreqQuarterly Frequency = 3
	FreqSemi      Frequency = 6
	FreqAnnual    Frequency = 12
)

func (f Frequency) String() string {
	switch f {
	case FreqOnce:
		return "Once"
	case FreqMonthly:
		return "Monthly"
	case FreqQuarterly:
		return "Quarterly"
	case FreqSemi:
		return "Semiannual"
	case FreqAnnual:
		return "Annual"
	default:
		return "Other"
	}
}

// Months returns the period length in months, 0 for FreqOnce.
func (f Frequency) Months() int {
	return int(f)
}

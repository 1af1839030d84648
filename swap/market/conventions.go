package market

import (
	"time"

	"github.com/meenmo/oiscurve/calendar"
	"github.com/meenmo/oiscurve/swap/index"
	"github.com/meenmo/oiscurve/utils"
)

// OISConvention captures the index and leg settings of a quoted OIS strip.
type OISConvention struct {
	Index          ReferenceIndex
	Currency       string
	FixingCalendar calendar.CalendarID
	FixingDays     int
	DayCount       utils.DayCount

	SettlementDays    int
	PaymentCalendar   calendar.Calendar
	PaymentConvention calendar.BusinessDayConvention
	PaymentLag        int
	EndOfMonth        bool
	Telescopic        bool
	Policy            TenorPolicy
}

// IndexConfig returns the overnight index settings for evalDate.
func (c OISConvention) IndexConfig(evalDate time.Time) index.Config {
	return index.Config{
		Name:           string(c.Index),
		Currency:       c.Currency,
		FixingCalendar: c.FixingCalendar,
		FixingDays:     c.FixingDays,
		DayCount:       c.DayCount,
		EvaluationDate: evalDate,
	}
}

// Quoted pairs a tenor with the market ticker quoting it.
type Quoted struct {
	Tenor  string
	Ticker string
}

// CLPOIS is the Chilean camara (CLICP) swap strip. Payments roll on the joint
// US/Chile calendar.
var CLPOIS = OISConvention{
	Index:             CLICP,
	Currency:          "CLP",
	FixingCalendar:    calendar.CLP,
	FixingDays:        2,
	DayCount:          utils.Act360,
	SettlementDays:    2,
	PaymentCalendar:   calendar.Joint(calendar.FED, calendar.CLP),
	PaymentConvention: calendar.ModifiedFollowing,
	PaymentLag:        0,
	EndOfMonth:        false,
	Telescopic:        false,
	Policy:            CLPTenorPolicy,
}

// CLPOISTickers lists the Bloomberg camara swap tickers by tenor.
var CLPOISTickers = []Quoted{
	{"3M", "CHSWPC Curncy"},
	{"6M", "CHSWPF Curncy"},
	{"9M", "CHSWPI Curncy"},
	{"1Y", "CHSWP1 Curncy"},
	{"18M", "CHSWP1F Curncy"},
	{"2Y", "CHSWP2 Curncy"},
	{"3Y", "CHSWP3 Curncy"},
	{"4Y", "CHSWP4 Curncy"},
	{"5Y", "CHSWP5 Curncy"},
	{"6Y", "CHSWP6 Curncy"},
	{"7Y", "CHSWP7 Curncy"},
	{"8Y", "CHSWP8 Curncy"},
	{"9Y", "CHSWP9 Curncy"},
	{"10Y", "CHSWP10 Curncy"},
	{"12Y", "CHSWP12 Curncy"},
	{"15Y", "CHSWP15 Curncy"},
	{"20Y", "CHSWP20 Curncy"},
}

// Conventions returns the preset registered for an instrument set name.
func Conventions(name string) (OISConvention, []Quoted, bool) {
	switch name {
	case "CLP_OIS", "CLICP":
		return CLPOIS, CLPOISTickers, true
	default:
		return OISConvention{}, nil, false
	}
}

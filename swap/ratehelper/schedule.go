package ratehelper

import (
	"fmt"
	"time"

	"github.com/meenmo/oiscurve/calendar"
	"github.com/meenmo/oiscurve/swap/market"
	"github.com/meenmo/oiscurve/utils"
)

// SchedulePeriod is one accrual period of an OIS leg.
type SchedulePeriod struct {
	StartDate time.Time
	EndDate   time.Time
	PayDate   time.Time
}

// scheduleRule rolls accrual dates on Calendar. Payment dates use PaymentCalendar when set.
type scheduleRule struct {
	Frequency       market.Frequency
	Calendar        calendar.Calendar
	Convention      calendar.BusinessDayConvention
	EndOfMonth      bool
	PaymentCalendar calendar.Calendar
	PaymentLag      int
}

// payDate mirrors a business-day advance: a zero lag only rolls end with the convention.
func (r scheduleRule) payDate(end time.Time) time.Time {
	cal := r.PaymentCalendar
	if cal == nil {
		cal = r.Calendar
	}
	if r.PaymentLag == 0 {
		return calendar.AdjustWith(cal, end, r.Convention)
	}
	return calendar.AddBusinessDays(cal, end, r.PaymentLag)
}

// generateScheduleBackward rolls back from maturity by the payment frequency. A leading
// short stub is kept as is.
func generateScheduleBackward(effective, maturity time.Time, rule scheduleRule) ([]SchedulePeriod, error) {
	if !maturity.After(effective) {
		return nil, fmt.Errorf("generateScheduleBackward: maturity %s not after effective %s",
			maturity.Format(utils.DateLayout), effective.Format(utils.DateLayout))
	}

	months := rule.Frequency.Months()
	eom := rule.EndOfMonth && calendar.IsEndOfMonth(rule.Calendar, maturity)

	// Unadjusted dates from maturity back to effective, each offset from maturity itself.
	unadjusted := []time.Time{maturity}
	if months > 0 {
		for i := 1; ; i++ {
			d := utils.AddMonth(maturity, -i*months)
			if !d.After(effective) {
				break
			}
			unadjusted = append([]time.Time{d}, unadjusted...)
		}
	}
	unadjusted = append([]time.Time{effective}, unadjusted...)

	adjusted := make([]time.Time, 0, len(unadjusted))
	for i, d := range unadjusted {
		var a time.Time
		if eom && i > 0 && i < len(unadjusted)-1 {
			a = calendar.LastBusinessDayOfMonth(rule.Calendar, d)
		} else {
			a = calendar.AdjustWith(rule.Calendar, d, rule.Convention)
		}
		if n := len(adjusted); n > 0 && !a.After(adjusted[n-1]) {
			continue
		}
		adjusted = append(adjusted, a)
	}
	if len(adjusted) < 2 {
		return nil, fmt.Errorf("generateScheduleBackward: empty schedule from %s to %s",
			effective.Format(utils.DateLayout), maturity.Format(utils.DateLayout))
	}

	periods := make([]SchedulePeriod, 0, len(adjusted)-1)
	for i := 0; i < len(adjusted)-1; i++ {
		end := adjusted[i+1]
		periods = append(periods, SchedulePeriod{
			StartDate: adjusted[i],
			EndDate:   end,
			PayDate:   rule.payDate(end),
		})
	}
	return periods, nil
}

package calendar

import (
	"strings"
	"time"
)

// JointCalendar is a business day only when every member calendar says so.
type JointCalendar []Calendar

// Joint composes calendars so that a holiday on any member is a holiday of the result.
func Joint(cals ...Calendar) JointCalendar {
	return JointCalendar(cals)
}

func (j JointCalendar) Name() string {
	names := make([]string, len(j))
	for i, c := range j {
		names[i] = c.Name()
	}
	return "JoinBusinessDays(" + strings.Join(names, ", ") + ")"
}

func (j JointCalendar) IsBusinessDay(t time.Time) bool {
	for _, c := range j {
		if !c.IsBusinessDay(t) {
			return false
		}
	}
	return true
}

// Parse resolves a calendar expression such as "CLP" or "FED+CLP".
func Parse(expr string) (Calendar, error) {
	parts := strings.Split(expr, "+")
	cals := make(JointCalendar, 0, len(parts))
	for _, p := range parts {
		id := CalendarID(strings.ToUpper(strings.TrimSpace(p)))
		if !Known(id) {
			return nil, &UnknownCalendarError{Name: p}
		}
		cals = append(cals, id)
	}
	if len(cals) == 1 {
		return cals[0], nil
	}
	return cals, nil
}

// UnknownCalendarError reports an unsupported calendar identifier.
type UnknownCalendarError struct {
	Name string
}

func (e *UnknownCalendarError) Error() string {
	return "unknown calendar " + `"` + e.Name + `"`
}

package calendar

import (
	"fmt"
	"strings"
)

// BusinessDayConvention is a date-rolling rule.
type BusinessDayConvention string

const (
	Unadjusted        BusinessDayConvention = "UNADJUSTED"
	Following         BusinessDayConvention = "FOLLOWING"
	ModifiedFollowing BusinessDayConvention = "MODIFIED_FOLLOWING"
	Preceding         BusinessDayConvention = "PRECEDING"
	ModifiedPreceding BusinessDayConvention = "MODIFIED_PRECEDING"
)

// ParseConvention accepts the constant names and the usual short forms (F, MF, P, MP, U).
func ParseConvention(s string) (BusinessDayConvention, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "U", "UNADJUSTED":
		return Unadjusted, nil
	case "F", "FOLLOWING":
		return Following, nil
	case "MF", "MODIFIED_FOLLOWING", "MODIFIEDFOLLOWING":
		return ModifiedFollowing, nil
	case "P", "PRECEDING":
		return Preceding, nil
	case "MP", "MODIFIED_PRECEDING", "MODIFIEDPRECEDING":
		return ModifiedPreceding, nil
	default:
		return "", fmt.Errorf("ParseConvention: unknown business day convention %q", s)
	}
}

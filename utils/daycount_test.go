package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/oiscurve/utils"
)

func TestYearFraction_Actual(t *testing.T) {
	t.Parallel()

	start := utils.Date(2023, time.June, 15)
	end := utils.Date(2023, time.September, 15)

	assert.InDelta(t, 92.0/360.0, utils.Act360.YearFraction(start, end), 1e-15)
	assert.InDelta(t, 92.0/365.0, utils.Act365F.YearFraction(start, end), 1e-15)
	assert.Equal(t, 92, utils.Act360.DayCount(start, end))
}

func TestYearFraction_Thirty360(t *testing.T) {
	t.Parallel()

	start := utils.Date(2023, time.January, 31)
	end := utils.Date(2023, time.March, 31)

	// 30/360 US caps D2 because D1 was capped; 30E/360 always caps.
	assert.InDelta(t, 60.0/360.0, utils.Thirty360.YearFraction(start, end), 1e-15)
	assert.InDelta(t, 60.0/360.0, utils.Thirty360E.YearFraction(start, end), 1e-15)

	start = utils.Date(2023, time.January, 15)
	assert.InDelta(t, 76.0/360.0, utils.Thirty360.YearFraction(start, end), 1e-15)
	assert.InDelta(t, 75.0/360.0, utils.Thirty360E.YearFraction(start, end), 1e-15)
}

func TestAddMonth_ClampsToMonthEnd(t *testing.T) {
	t.Parallel()

	got := utils.AddMonth(utils.Date(2023, time.January, 31), 1)
	assert.Equal(t, utils.Date(2023, time.February, 28), got)

	got = utils.AddMonth(utils.Date(2024, time.March, 31), -1)
	assert.Equal(t, utils.Date(2024, time.February, 29), got)

	got = utils.AddMonth(utils.Date(2023, time.June, 19), 18)
	assert.Equal(t, utils.Date(2024, time.December, 19), got)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := utils.ParseDate("2023-06-20")
	require.NoError(t, err)
	assert.Equal(t, utils.Date(2023, time.June, 20), d)

	_, err = utils.ParseDate("20/06/2023")
	require.Error(t, err)
}

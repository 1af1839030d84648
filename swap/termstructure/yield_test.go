package termstructure_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/oiscurve/swap/termstructure"
	"github.com/meenmo/oiscurve/utils"
)

func TestFlatForward(t *testing.T) {
	t.Parallel()

	ref := utils.Date(2023, time.June, 15)
	c := termstructure.NewFlatForward(ref, 0.05, utils.Act360)

	df, err := c.Discount(utils.Date(2023, time.December, 15))
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-0.05*183.0/360.0), df, 1e-15)

	z, err := termstructure.ZeroRate(c, utils.Date(2024, time.June, 15))
	require.NoError(t, err)
	assert.InDelta(t, 0.05, z, 1e-14)

	z0, err := termstructure.ZeroRate(c, ref)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, z0, 1e-12)

	_, err = c.Discount(ref.AddDate(0, 0, -1))
	require.ErrorIs(t, err, termstructure.ErrOutOfRange)
}

func TestForwardRate(t *testing.T) {
	t.Parallel()

	ref := utils.Date(2023, time.June, 15)
	c := termstructure.NewFlatForward(ref, 0.04, utils.Act365F)
	d1 := utils.Date(2023, time.July, 3)
	d2 := utils.Date(2023, time.July, 4)

	fwd, err := termstructure.ForwardRate(c, d1, d2, utils.Act360)
	require.NoError(t, err)
	want := (math.Exp(0.04/365.0) - 1) * 360.0
	assert.InDelta(t, want, fwd, 1e-14)

	_, err = termstructure.ForwardRate(c, d2, d1, utils.Act360)
	require.Error(t, err)
}

func TestHandle_Unlinked(t *testing.T) {
	t.Parallel()

	h := termstructure.NewHandle()
	_, err := h.Current()
	require.Error(t, err)

	h.LinkTo(termstructure.NewFlatForward(utils.Date(2023, time.June, 15), 0.01, utils.Act360))
	assert.False(t, h.Empty())
}

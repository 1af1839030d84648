package build_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/oiscurve/cmd/oiscurve/internal/build"
	"github.com/meenmo/oiscurve/marketdata"
	"github.com/meenmo/oiscurve/quote"
	"github.com/meenmo/oiscurve/utils"
)

const quotes = `
instrument_set: CLP_OIS
evaluation_dates: ["2023-06-16", "2023-06-15"]
instruments:
  - {tenor: 3M, ticker: CHSWPC Curncy}
  - {tenor: 6M, ticker: CHSWPF Curncy}
  - {tenor: 1Y, ticker: CHSWP1 Curncy}
  - {tenor: 2Y, ticker: CHSWP2 Curncy}
prices:
  CHSWPC Curncy: 10.995
  CHSWPF Curncy: 10.44
  CHSWP1 Curncy: 9.028
  CHSWP2 Curncy: 6.88
`

func request(t *testing.T, raw string) build.Request {
	t.Helper()
	f, err := marketdata.ParseQuoteFile([]byte(raw))
	require.NoError(t, err)
	req, err := build.FromQuoteFile(f)
	require.NoError(t, err)
	return req
}

func TestBatch(t *testing.T) {
	t.Parallel()

	results, err := build.Batch(context.Background(), request(t, quotes))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, utils.Date(2023, time.June, 16), results[0].EvaluationDate)
	assert.Equal(t, utils.Date(2023, time.June, 15), results[1].EvaluationDate)
	// Helpers accrue from the Chilean spot; the joint calendar skips the US holiday.
	assert.Equal(t, []time.Time{utils.Date(2023, time.June, 19)}, results[1].EarliestDates)
	assert.Equal(t, utils.Date(2023, time.June, 20), results[1].Advanced)
	assert.Equal(t, []time.Time{utils.Date(2023, time.June, 20)}, results[0].EarliestDates)
	assert.Equal(t, utils.Date(2023, time.June, 22), results[0].Advanced)

	for _, r := range results {
		require.Len(t, r.Helpers, 4)
		require.Len(t, r.Nodes, 5)
		assert.Equal(t, 1.0, r.Nodes[0].DF)
		for _, h := range r.Helpers {
			assert.InDelta(t, 0, h.Residual, 1e-10, h.Tenor)
		}
		assert.InDelta(t, 0.10995, r.Helpers[0].Quote, 1e-15)
	}
}

func TestBatch_MissingQuote(t *testing.T) {
	t.Parallel()

	raw := quotes + "\nmissing: unset\n"
	req := request(t, raw)
	req.Instruments = append(req.Instruments, req.Instruments[0])
	req.Instruments[len(req.Instruments)-1].Tenor = "5Y"
	req.Instruments[len(req.Instruments)-1].Ticker = "CHSWP5 Curncy"

	_, err := build.Batch(context.Background(), req)
	require.ErrorIs(t, err, quote.ErrUnset)
}

func TestBatch_Fixings(t *testing.T) {
	t.Parallel()

	req := request(t, quotes+`
fixings:
  "2023-06-13": 0.1125
  "2023-06-14": 0.1125
`)
	req.Dates = req.Dates[1:]
	res, err := build.One(context.Background(), req, req.Dates[0])
	require.NoError(t, err)
	assert.Len(t, res.Helpers, 4)
}

func TestWriters(t *testing.T) {
	t.Parallel()

	req := request(t, quotes)
	req.Dates = req.Dates[1:]
	results, err := build.Batch(context.Background(), req)
	require.NoError(t, err)

	var text bytes.Buffer
	require.NoError(t, build.WriteText(&text, results))
	assert.Contains(t, text.String(), "Evaluation date: 2023-06-15")
	assert.Contains(t, text.String(), "Helper date: 2023-06-19")
	assert.Contains(t, text.String(), "Calendar advanced date: 2023-06-20")
	assert.Contains(t, text.String(), "10.9950")
	assert.Contains(t, text.String(), "1.000000000000")

	var js bytes.Buffer
	require.NoError(t, build.WriteJSON(&js, results))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "2023-06-15", decoded[0]["evaluation_date"])
	helpers := decoded[0]["helpers"].([]any)
	first := helpers[0].(map[string]any)
	assert.Equal(t, "2023-06-19", first["earliest_date"])
	assert.Equal(t, "2023-06-20", decoded[0]["calendar_advanced_date"])
	assert.Equal(t, "Once", first["frequency"])
}

func TestFromQuoteFile_UnknownSet(t *testing.T) {
	t.Parallel()

	f, err := marketdata.ParseQuoteFile([]byte(`instrument_set: JPY_TONA`))
	require.NoError(t, err)
	_, err = build.FromQuoteFile(f)
	require.Error(t, err)
}

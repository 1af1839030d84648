package marketdata_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/oiscurve/marketdata"
	"github.com/meenmo/oiscurve/utils"
)

func newMockSource(t *testing.T) (*marketdata.PGSource, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	src := marketdata.NewPGSource(sqlx.NewDb(db, "postgres"))
	t.Cleanup(func() { _ = src.Close() })
	return src, mock
}

func TestPGSource_Prices(t *testing.T) {
	t.Parallel()

	src, mock := newMockSource(t)
	asOf := utils.Date(2023, time.June, 15)
	mock.ExpectQuery("SELECT ticker, price\\s+FROM market_quotes").
		WithArgs(asOf).
		WillReturnRows(sqlmock.NewRows([]string{"ticker", "price"}).
			AddRow("CHSWP1 Curncy", 9.028).
			AddRow("CHSWPC Curncy", 10.995))

	prices, err := src.Prices(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"CHSWP1 Curncy": 9.028, "CHSWPC Curncy": 10.995}, prices)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGSource_PricesError(t *testing.T) {
	t.Parallel()

	src, mock := newMockSource(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("FROM market_quotes").WillReturnError(boom)

	_, err := src.Prices(context.Background(), utils.Date(2023, time.June, 15))
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGSource_Fixings(t *testing.T) {
	t.Parallel()

	src, mock := newMockSource(t)
	until := utils.Date(2023, time.June, 15)
	mock.ExpectQuery("SELECT fixing_date, rate\\s+FROM index_fixings").
		WithArgs("CLICP", until).
		WillReturnRows(sqlmock.NewRows([]string{"fixing_date", "rate"}).
			AddRow(utils.Date(2023, time.June, 13), 0.1125).
			AddRow(utils.Date(2023, time.June, 14), 0.1125))

	fixings, err := src.Fixings(context.Background(), "CLICP", until)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"2023-06-13": 0.1125, "2023-06-14": 0.1125}, fixings)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProvider_RefreshFromPostgres(t *testing.T) {
	t.Parallel()

	src, mock := newMockSource(t)
	asOf := utils.Date(2023, time.June, 16)
	mock.ExpectQuery("FROM market_quotes").
		WithArgs(asOf).
		WillReturnRows(sqlmock.NewRows([]string{"ticker", "price"}).AddRow("CHSWP2 Curncy", 6.88))

	p := marketdata.NewProvider(marketdata.MissingUnset)
	d, err := p.Derived("CHSWP2 Curncy", 100)
	require.NoError(t, err)

	_, err = p.Refresh(context.Background(), src, asOf)
	require.NoError(t, err)
	v, err := d.Value()
	require.NoError(t, err)
	assert.InDelta(t, 0.0688, v, 1e-15)
}

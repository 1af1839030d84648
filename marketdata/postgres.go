package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/meenmo/oiscurve/utils"
)

// PGSource reads quotes and fixings from Postgres.
//
//	market_quotes(as_of date, ticker text, price double precision)
//	index_fixings(index_name text, fixing_date date, rate double precision)
type PGSource struct {
	db *sqlx.DB
}

// OpenPG connects with the lib/pq driver.
func OpenPG(ctx context.Context, dsn string) (*PGSource, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("OpenPG: %w", err)
	}
	return NewPGSource(db), nil
}

func NewPGSource(db *sqlx.DB) *PGSource {
	return &PGSource{db: db}
}

func (s *PGSource) Close() error {
	return s.db.Close()
}

type priceRow struct {
	Ticker string  `db:"ticker"`
	Price  float64 `db:"price"`
}

// Prices returns the prices stored for asOf.
func (s *PGSource) Prices(ctx context.Context, asOf time.Time) (map[string]float64, error) {
	var rows []priceRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT ticker, price
		FROM market_quotes
		WHERE as_of = $1
		ORDER BY ticker
	`, asOf)
	if err != nil {
		return nil, fmt.Errorf("PGSource.Prices %s: %w", asOf.Format(utils.DateLayout), err)
	}
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Ticker] = r.Price
	}
	return out, nil
}

type fixingRow struct {
	Date time.Time `db:"fixing_date"`
	Rate float64   `db:"rate"`
}

// Fixings returns the fixings of indexName published strictly before until, keyed by ISO date.
func (s *PGSource) Fixings(ctx context.Context, indexName string, until time.Time) (map[string]float64, error) {
	var rows []fixingRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT fixing_date, rate
		FROM index_fixings
		WHERE index_name = $1 AND fixing_date < $2
		ORDER BY fixing_date
	`, indexName, until)
	if err != nil {
		return nil, fmt.Errorf("PGSource.Fixings %s: %w", indexName, err)
	}
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Date.Format(utils.DateLayout)] = r.Rate
	}
	return out, nil
}

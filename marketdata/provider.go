// Package marketdata resolves market tickers to live quotes and loads their prices from files
// or a database.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/meenmo/oiscurve/quote"
)

// ErrUnknownTicker is returned for tickers the provider has no price for under MissingError.
var ErrUnknownTicker = errors.New("unknown ticker")

// MissingPolicy decides what Quote returns for a ticker without a price.
type MissingPolicy int

const (
	// MissingUnset hands out an unset quote that a later Set fills.
	MissingUnset MissingPolicy = iota
	// MissingAsZero prices unknown tickers at zero.
	MissingAsZero
	// MissingError fails the lookup.
	MissingError
)

// ParseMissingPolicy accepts "unset", "zero" and "error".
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch s {
	case "", "unset":
		return MissingUnset, nil
	case "zero":
		return MissingAsZero, nil
	case "error":
		return MissingError, nil
	default:
		return 0, fmt.Errorf("ParseMissingPolicy: unknown policy %q", s)
	}
}

// Source supplies percent prices keyed by ticker for a date.
type Source interface {
	Prices(ctx context.Context, asOf time.Time) (map[string]float64, error)
}

// Provider owns one quote per ticker. Quotes handed out stay live: later updates are seen by
// every reader.
type Provider struct {
	mu      sync.Mutex
	quotes  map[string]*quote.SimpleQuote
	missing MissingPolicy
}

// NewProvider returns an empty provider resolving unknown tickers with missing.
func NewProvider(missing MissingPolicy) *Provider {
	return &Provider{quotes: make(map[string]*quote.SimpleQuote), missing: missing}
}

// Quote returns the quote for ticker, creating it according to the missing policy.
func (p *Provider) Quote(ticker string) (*quote.SimpleQuote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if q, ok := p.quotes[ticker]; ok {
		return q, nil
	}
	var q *quote.SimpleQuote
	switch p.missing {
	case MissingAsZero:
		q = quote.New(ticker, 0)
	case MissingError:
		return nil, fmt.Errorf("Quote: %q: %w", ticker, ErrUnknownTicker)
	default:
		q = quote.NewUnset(ticker)
	}
	p.quotes[ticker] = q
	return q, nil
}

// Derived returns the ticker's quote divided by divisor on every read.
func (p *Provider) Derived(ticker string, divisor float64) (*quote.Derived, error) {
	if divisor == 0 {
		return nil, fmt.Errorf("Derived: %q: zero divisor", ticker)
	}
	q, err := p.Quote(ticker)
	if err != nil {
		return nil, err
	}
	return quote.Divide(q, divisor), nil
}

// Set updates or creates the quote for ticker.
func (p *Provider) Set(ticker string, v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if q, ok := p.quotes[ticker]; ok {
		q.Set(v)
		return
	}
	p.quotes[ticker] = quote.New(ticker, v)
}

// Load sets every price in prices.
func (p *Provider) Load(prices map[string]float64) {
	for t, v := range prices {
		p.Set(t, v)
	}
}

// Refresh pulls prices for asOf from src into the provider and returns how many were set.
func (p *Provider) Refresh(ctx context.Context, src Source, asOf time.Time) (int, error) {
	prices, err := src.Prices(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("Refresh: %w", err)
	}
	p.Load(prices)
	return len(prices), nil
}

// Tickers lists known tickers in sorted order.
func (p *Provider) Tickers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.quotes))
	for t := range p.quotes {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

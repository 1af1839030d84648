// Package quote holds market values that can change after the objects reading them are built.
package quote

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnset is returned when reading a quote that has no value.
var ErrUnset = errors.New("quote not set")

// Quote is a read-only numeric market value.
type Quote interface {
	Value() (float64, error)
	IsValid() bool
}

// SimpleQuote is a mutable cell. The zero value is unset.
type SimpleQuote struct {
	label string
	value float64
	set   bool
}

// New returns a quote holding v.
func New(label string, v float64) *SimpleQuote {
	return &SimpleQuote{label: label, value: v, set: true}
}

// NewUnset returns a quote with no value.
func NewUnset(label string) *SimpleQuote {
	return &SimpleQuote{label: label}
}

// Label returns the ticker the quote was created for.
func (q *SimpleQuote) Label() string {
	return q.label
}

// Value returns the current value or ErrUnset.
func (q *SimpleQuote) Value() (float64, error) {
	if !q.set {
		return 0, fmt.Errorf("%s: %w", q.describe(), ErrUnset)
	}
	return q.value, nil
}

func (q *SimpleQuote) IsValid() bool {
	return q.set
}

// Set stores v. NaN unsets the quote.
func (q *SimpleQuote) Set(v float64) {
	if math.IsNaN(v) {
		q.Reset()
		return
	}
	q.value = v
	q.set = true
}

// Reset makes the quote unset.
func (q *SimpleQuote) Reset() {
	q.value = 0
	q.set = false
}

func (q *SimpleQuote) describe() string {
	if q.label == "" {
		return "quote"
	}
	return "quote " + q.label
}

// Derived applies a fixed transform to another quote on every read.
type Derived struct {
	source Quote
	fn     func(float64) float64
}

// NewDerived wraps source with fn. The source is shared, not copied.
func NewDerived(source Quote, fn func(float64) float64) *Derived {
	return &Derived{source: source, fn: fn}
}

// Divide is a derived quote returning source / divisor, e.g. percent to decimal with 100.
func Divide(source Quote, divisor float64) *Derived {
	return NewDerived(source, func(x float64) float64 { return x / divisor })
}

func (d *Derived) Value() (float64, error) {
	v, err := d.source.Value()
	if err != nil {
		return 0, fmt.Errorf("derived: %w", err)
	}
	return d.fn(v), nil
}

func (d *Derived) IsValid() bool {
	return d.source.IsValid()
}

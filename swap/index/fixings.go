package index

import (
	"sync"
	"time"

	"github.com/meenmo/oiscurve/utils"
)

// FixingSource supplies published index fixings.
type FixingSource interface {
	RateOn(date time.Time) (float64, bool)
}

// MapFixings is a map-backed fixing history keyed by ISO date.
type MapFixings struct {
	mu    sync.RWMutex
	rates map[string]float64
}

// NewMapFixings copies rates keyed by "2006-01-02".
func NewMapFixings(rates map[string]float64) *MapFixings {
	m := &MapFixings{rates: make(map[string]float64, len(rates))}
	for k, v := range rates {
		m.rates[k] = v
	}
	return m
}

func (m *MapFixings) RateOn(date time.Time) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.rates[date.Format(utils.DateLayout)]
	return val, ok
}

// Add stores a fixing, replacing any previous value for the date.
func (m *MapFixings) Add(date time.Time, rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[date.Format(utils.DateLayout)] = rate
}

// Len returns the number of stored fixings.
func (m *MapFixings) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rates)
}

// Dates returns the fixing dates in ascending order.
func (m *MapFixings) Dates() []time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]time.Time, 0, len(m.rates))
	for k := range m.rates {
		if d, err := utils.ParseDate(k); err == nil {
			out = append(out, d)
		}
	}
	utils.SortDates(out)
	return out
}

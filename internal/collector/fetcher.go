package collector

import (
	"sync"
	"time"

	"StochScan/internal/model"
)

// Fetcher retrieves historical daily bars for a security. An empty result
// means "no data for this symbol" and is not an error.
type Fetcher interface {
	FetchDailyBars(symbol, exchange string, n int) ([]model.Bar, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
// Safe for concurrent use by parallel workers.
type MockFetcher struct {
	Bars   map[string][]model.Bar // keyed by symbol; missing key yields no data
	Err    error
	ErrFor string // symbol that should fail when Err is set

	mu      sync.Mutex
	fetched []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(symbol, _ string, n int) ([]model.Bar, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, symbol)
	m.mu.Unlock()
	if m.Err != nil && (m.ErrFor == "" || m.ErrFor == symbol) {
		return nil, m.Err
	}
	bars := m.Bars[symbol]
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars, nil
}

// Fetched lists the symbols requested so far.
func (m *MockFetcher) Fetched() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetched...)
}

// GenerateBars builds a synthetic chronological daily series around a base
// price, ending yesterday.
func GenerateBars(basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	start := time.Now().AddDate(0, 0, -count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:  start.AddDate(0, 0, i),
			Open:  p * 0.999,
			High:  p * 1.005,
			Low:   p * 0.995,
			Close: p,
		}
	}
	return bars
}

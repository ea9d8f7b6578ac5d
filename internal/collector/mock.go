package collector

import (
	"context"
	"sync/atomic"
	"time"

	"TradingAdvisor/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Drift float64 // per-bar relative change of the generated closes
	Bars  map[string][]model.OHLCV
	Err   error

	calls atomic.Int64
}

// Calls reports how many fetches were made.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.OHLCV, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, m.Drift, days), nil
}

func generateMockBars(basePrice, drift float64, count int) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	end := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*drift)
		if p <= 0 {
			p = basePrice * 0.01
		}
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

package scanner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"TradingAdvisor/internal/collector"
	"TradingAdvisor/internal/model"
	"TradingAdvisor/internal/strategy"
)

func mockCollector() *collector.Collector {
	fetcher := &collector.MockFetcher{
		Price: 100,
		Drift: 0.005,
		Bars:  map[string][]model.OHLCV{"BAD": {}},
	}
	return collector.NewCollector(fetcher, 120, 0)
}

func TestScan(t *testing.T) {
	s := New(mockCollector(), Criteria{}, 3)
	report, err := s.Scan(context.Background(), []string{"aapl", "MSFT", "BAD", "AAPL", " "}, strategy.DefaultParams())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if report.Failed != 1 {
		t.Errorf("failed = %d, want 1", report.Failed)
	}
	if len(report.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(report.Results))
	}
	if report.Results[0].Symbol != "AAPL" || report.Results[1].Symbol != "MSFT" {
		t.Errorf("order = %s, %s", report.Results[0].Symbol, report.Results[1].Symbol)
	}
	for _, r := range report.Results {
		if r.Trend.State != model.Uptrend {
			t.Errorf("%s trend = %s, want Uptrend for a rising series", r.Symbol, r.Trend.State)
		}
		if len(r.Patterns) > MaxPatterns {
			t.Errorf("%s carries %d patterns", r.Symbol, len(r.Patterns))
		}
		if r.Price <= 0 || r.Volume <= 0 {
			t.Errorf("%s price/volume not filled: %+v", r.Symbol, r)
		}
	}
	if report.Duration <= 0 || report.StartedAt.IsZero() {
		t.Error("timing not recorded")
	}
}

func TestScan_Criteria(t *testing.T) {
	// The mock series closes at 129.5 with volume 1,000,000.
	tests := []struct {
		name     string
		criteria Criteria
		matched  int
	}{
		{"no screen", Criteria{}, 2},
		{"min price above", Criteria{MinPrice: 200}, 0},
		{"max price below", Criteria{MaxPrice: 120}, 0},
		{"price band", Criteria{MinPrice: 100, MaxPrice: 150}, 2},
		{"min volume", Criteria{MinVolume: 2_000_000}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := New(mockCollector(), tt.criteria, 2).Scan(context.Background(), []string{"AAPL", "MSFT"}, strategy.Params{})
			if err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if len(report.Results) != tt.matched {
				t.Errorf("matched = %d, want %d", len(report.Results), tt.matched)
			}
			if report.Filtered != 2-tt.matched {
				t.Errorf("filtered = %d", report.Filtered)
			}
		})
	}
}

func TestScan_OrderedByStrength(t *testing.T) {
	report, err := New(mockCollector(), Criteria{}, 4).Scan(context.Background(),
		[]string{"A", "B", "C", "D", "E"}, strategy.DefaultParams())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for i := 1; i < len(report.Results); i++ {
		prev, cur := report.Results[i-1], report.Results[i]
		if prev.Trend.Strength < cur.Trend.Strength {
			t.Errorf("result %d stronger than %d", i, i-1)
		}
		if prev.Trend.Strength == cur.Trend.Strength && prev.Symbol > cur.Symbol {
			t.Errorf("tie not broken by symbol: %s before %s", prev.Symbol, cur.Symbol)
		}
	}
}

func TestScan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(mockCollector(), Criteria{}, 2).Scan(ctx, []string{"AAPL"}, strategy.Params{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

type slowSource struct {
	inFlight, peak atomic.Int64
	inner          Source
}

func (s *slowSource) Collect(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return s.inner.Collect(ctx, symbol)
}

func TestScan_ConcurrencyLimit(t *testing.T) {
	src := &slowSource{inner: mockCollector()}
	if _, err := New(src, Criteria{}, 2).Scan(context.Background(),
		[]string{"A", "B", "C", "D", "E", "F"}, strategy.Params{}); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if peak := src.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestCriteriaMatch(t *testing.T) {
	c := Criteria{MinPrice: 5, MaxPrice: 500, MinVolume: 1000}
	tests := []struct {
		price, volume float64
		want          bool
	}{
		{50, 5000, true},
		{4.99, 5000, false},
		{501, 5000, false},
		{50, 999, false},
		{5, 1000, true},
	}
	for _, tt := range tests {
		if got := c.Match(tt.price, tt.volume); got != tt.want {
			t.Errorf("Match(%v, %v) = %v, want %v", tt.price, tt.volume, got, tt.want)
		}
	}
}

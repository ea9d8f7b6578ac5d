package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"TradingAdvisor/internal/metrics"
	"TradingAdvisor/internal/model"
)

// DefaultHistoryDays covers the 50-bar trend window with room for holidays.
const DefaultHistoryDays = 120

// Collector fetches daily bars and keeps them in a short-lived cache.
type Collector struct {
	Fetcher     Fetcher
	HistoryDays int
	cache       *cache.Cache
}

// NewCollector creates a new Collector. A non-positive ttl disables caching.
func NewCollector(fetcher Fetcher, historyDays int, ttl time.Duration) *Collector {
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	c := &Collector{Fetcher: fetcher, HistoryDays: historyDays}
	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}
	return c
}

func (c *Collector) cacheKey(symbol string) string {
	return fmt.Sprintf("%s:%s:%d", c.Fetcher.Name(), symbol, c.HistoryDays)
}

// Collect returns the daily price series for symbol.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("collect: empty symbol")
	}

	key := c.cacheKey(symbol)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			metrics.CacheHits.Inc()
			return v.(*model.PriceSeries), nil
		}
	}

	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.HistoryDays)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(c.Fetcher.Name()).Inc()
		return nil, fmt.Errorf("fetch daily bars for %s: %w", symbol, err)
	}

	series := &model.PriceSeries{Symbol: symbol, Bars: normalize(bars), FetchedAt: time.Now()}
	if err := series.Validate(); err != nil {
		metrics.FetchErrors.WithLabelValues(c.Fetcher.Name()).Inc()
		return nil, fmt.Errorf("validate %s: %w", symbol, err)
	}
	if dropped := len(bars) - series.Len(); dropped > 0 {
		log.Warn().Str("symbol", symbol).Int("dropped", dropped).Msg("discarded malformed bars")
	}

	if c.cache != nil {
		c.cache.SetDefault(key, series)
	}
	return series, nil
}

// normalize sorts bars by time, keeps the last bar for a repeated timestamp
// and drops bars that cannot be priced.
func normalize(bars []model.OHLCV) []model.OHLCV {
	sorted := make([]model.OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	out := sorted[:0]
	for _, b := range sorted {
		if !b.Finite() || b.Close <= 0 || b.High < b.Low {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// Package scanner evaluates a watchlist concurrently and screens the results.
package scanner

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"TradingAdvisor/internal/metrics"
	"TradingAdvisor/internal/model"
	"TradingAdvisor/internal/strategy"
)

// MaxPatterns is the number of recent patterns reported per symbol.
const MaxPatterns = 2

// Source supplies the price series of a symbol. *collector.Collector implements it.
type Source interface {
	Collect(ctx context.Context, symbol string) (*model.PriceSeries, error)
}

// Criteria screens evaluated symbols on their latest bar. Zero bounds are ignored.
type Criteria struct {
	MinPrice  float64
	MaxPrice  float64
	MinVolume float64
}

// Match reports whether a bar with the given close and volume passes the screen.
func (c Criteria) Match(price, volume float64) bool {
	if c.MinPrice > 0 && price < c.MinPrice {
		return false
	}
	if c.MaxPrice > 0 && price > c.MaxPrice {
		return false
	}
	if c.MinVolume > 0 && volume < c.MinVolume {
		return false
	}
	return true
}

// Report is the outcome of one scan.
type Report struct {
	StartedAt time.Time
	Duration  time.Duration
	Results   []model.ScanResult
	Failed    int
	Filtered  int
}

// Scanner fans evaluations out over a bounded number of goroutines.
type Scanner struct {
	Source        Source
	Criteria      Criteria
	MaxConcurrent int
}

// New creates a Scanner. A non-positive maxConcurrent means one symbol at a time.
func New(src Source, criteria Criteria, maxConcurrent int) *Scanner {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Scanner{Source: src, Criteria: criteria, MaxConcurrent: maxConcurrent}
}

// Scan evaluates every symbol with p. Symbols that cannot be fetched are
// skipped and counted in Report.Failed; only cancellation of ctx is an error.
// Results are ordered by trend strength, strongest first, then by symbol.
func (s *Scanner) Scan(ctx context.Context, symbols []string, p strategy.Params) (*Report, error) {
	start := time.Now()
	symbols = dedupe(symbols)

	var (
		mu     sync.Mutex
		report = &Report{StartedAt: start}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.MaxConcurrent)
	for _, sym := range symbols {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			series, err := s.Source.Collect(gctx, sym)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn().Err(err).Str("symbol", sym).Msg("scan: skipping symbol")
				mu.Lock()
				report.Failed++
				mu.Unlock()
				return nil
			}

			plan := strategy.Evaluate(series, p)
			plan.TriggerType = model.TriggerScan
			metrics.PlansTotal.WithLabelValues(string(plan.Trend.State)).Inc()

			mu.Lock()
			defer mu.Unlock()
			if !s.Criteria.Match(plan.CurrentPrice, plan.Volume) {
				report.Filtered++
				return nil
			}
			report.Results = append(report.Results, toResult(plan))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Results, func(i, j int) bool {
		a, b := report.Results[i], report.Results[j]
		if a.Trend.Strength != b.Trend.Strength {
			return a.Trend.Strength > b.Trend.Strength
		}
		return a.Symbol < b.Symbol
	})

	report.Duration = time.Since(start)
	metrics.ScanDuration.Observe(report.Duration.Seconds())
	log.Info().
		Int("symbols", len(symbols)).
		Int("matched", len(report.Results)).
		Int("failed", report.Failed).
		Dur("took", report.Duration).
		Msg("scan complete")
	return report, nil
}

func toResult(plan *model.TradingPlan) model.ScanResult {
	patterns := plan.Patterns
	if len(patterns) > MaxPatterns {
		patterns = patterns[:MaxPatterns]
	}
	return model.ScanResult{
		Symbol:   plan.Symbol,
		Price:    plan.CurrentPrice,
		Volume:   plan.Volume,
		Trend:    plan.Trend,
		Patterns: patterns,
		Levels:   plan.Levels,
	}
}

func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

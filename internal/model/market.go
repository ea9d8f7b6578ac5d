package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrEmptySeries = errors.New("price series is empty")
	ErrUnordered   = errors.New("bars are not in strictly increasing time order")
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Bullish reports whether the bar closed above its open.
func (b OHLCV) Bullish() bool { return b.Close > b.Open }

// Bearish reports whether the bar closed below its open.
func (b OHLCV) Bearish() bool { return b.Close < b.Open }

// Finite reports whether every price and the volume are real numbers.
func (b OHLCV) Finite() bool {
	for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// PriceSeries holds the daily bars of one instrument, oldest first.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Last returns the most recent bar. ok is false for an empty series.
func (s *PriceSeries) Last() (bar OHLCV, ok bool) {
	if s.Len() == 0 {
		return OHLCV{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Closes extracts close prices in bar order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, s.Len())
	for i := range closes {
		closes[i] = s.Bars[i].Close
	}
	return closes
}

// Validate checks the ordering and consistency rules the engine relies on.
func (s *PriceSeries) Validate() error {
	if s.Len() == 0 {
		return ErrEmptySeries
	}
	for i, b := range s.Bars {
		if i > 0 && !b.Time.After(s.Bars[i-1].Time) {
			return fmt.Errorf("bar %d (%s): %w", i, b.Time.Format("2006-01-02"), ErrUnordered)
		}
		if !b.Finite() {
			return fmt.Errorf("bar %d (%s): non-finite value", i, b.Time.Format("2006-01-02"))
		}
		if b.High < b.Low {
			return fmt.Errorf("bar %d: high %.4f below low %.4f", i, b.High, b.Low)
		}
		if b.Close <= 0 {
			return fmt.Errorf("bar %d: non-positive close %.4f", i, b.Close)
		}
	}
	return nil
}

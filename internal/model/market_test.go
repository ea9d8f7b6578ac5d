package model

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestPriceSeries_Validate(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bar := func(d int, c float64) OHLCV {
		return OHLCV{Time: day.AddDate(0, 0, d), Open: c, High: c + 1, Low: c - 1, Close: c}
	}

	var empty PriceSeries
	if err := empty.Validate(); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}

	ok := PriceSeries{Bars: []OHLCV{bar(0, 10), bar(1, 11), bar(3, 12)}}
	if err := ok.Validate(); err != nil {
		t.Errorf("gapped but ordered series should validate, got %v", err)
	}

	dup := PriceSeries{Bars: []OHLCV{bar(0, 10), bar(0, 11)}}
	if err := dup.Validate(); !errors.Is(err, ErrUnordered) {
		t.Errorf("expected ErrUnordered for duplicate timestamp, got %v", err)
	}

	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		nanClose := PriceSeries{Bars: []OHLCV{bar(0, 10), {Time: day.AddDate(0, 0, 1), Open: 10, High: 11, Low: 9, Close: v}}}
		if err := nanClose.Validate(); err == nil {
			t.Errorf("expected error for close %v", v)
		}
		nanHigh := PriceSeries{Bars: []OHLCV{{Time: day, Open: 10, High: v, Low: 9, Close: 10}}}
		if err := nanHigh.Validate(); err == nil {
			t.Errorf("expected error for high %v", v)
		}
	}

	inverted := PriceSeries{Bars: []OHLCV{{Time: day, Open: 10, High: 9, Low: 11, Close: 10}}}
	if err := inverted.Validate(); err == nil {
		t.Error("expected error for high below low")
	}
}

func TestPriceSeries_LastAndCloses(t *testing.T) {
	var s *PriceSeries
	if _, ok := s.Last(); ok {
		t.Error("nil series should have no last bar")
	}
	s = &PriceSeries{Bars: []OHLCV{{Close: 1}, {Close: 2}}}
	last, ok := s.Last()
	if !ok || last.Close != 2 {
		t.Errorf("expected last close 2, got %v (ok=%v)", last.Close, ok)
	}
	if c := s.Closes(); len(c) != 2 || c[0] != 1 {
		t.Errorf("unexpected closes %v", c)
	}
}

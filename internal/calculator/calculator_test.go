package calculator

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"TradingAdvisor/internal/model"
)

func makeBars(closes []float64) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func linear(n int, from, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

func TestSMA_UndefinedUntilWindowFills(t *testing.T) {
	s := SMA([]float64{1, 2, 3, 4, 5}, 3)
	for i := 0; i < 2; i++ {
		if s[i].Valid {
			t.Errorf("point %d should be undefined", i)
		}
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		p := s[i+2]
		if !p.Valid || math.Abs(p.Value-w) > 1e-9 {
			t.Errorf("point %d: expected %.2f, got %+v", i+2, w, p)
		}
	}
}

func TestSMA_ShortSeries(t *testing.T) {
	s := SMA([]float64{1, 2}, 5)
	if len(s) != 2 {
		t.Fatalf("expected aligned series of 2, got %d", len(s))
	}
	if _, ok := s.Last(); ok {
		t.Error("expected undefined SMA for short series")
	}
	if _, err := CalculateSMA([]float64{1, 2}, 5); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := CalculateSMA([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for non-positive period")
	}
}

func TestRSI_AllGainsIs100(t *testing.T) {
	closes := linear(20, 100, 1)
	v, err := CalculateRSI(makeBars(closes), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 100 {
		t.Errorf("expected RSI=100 for all positive changes, got %.4f", v)
	}
}

func TestRSI_FlatWindowIsNeutral(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 50
	}
	v, ok := RSI(closes, 14).Last()
	if !ok || v != 50 {
		t.Errorf("expected neutral 50 for flat window, got %.4f (ok=%v)", v, ok)
	}
}

func TestRSI_AllLossesIsZero(t *testing.T) {
	v, ok := RSI(linear(20, 100, -1), 14).Last()
	if !ok || v != 0 {
		t.Errorf("expected RSI=0 for all losses, got %.4f", v)
	}
}

func TestRSI_KnownValue(t *testing.T) {
	// 2 changes: +2, -1 → avg gain 1, avg loss 0.5, RS 2, RSI 66.67
	v, ok := RSI([]float64{10, 12, 11}, 2).Last()
	if !ok || math.Abs(v-66.6667) > 0.001 {
		t.Errorf("expected 66.67, got %.4f", v)
	}
}

func TestRSI_InsufficientData(t *testing.T) {
	if _, err := CalculateRSI(makeBars(linear(14, 1, 1)), 14); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData with period bars, got %v", err)
	}
}

func TestRSI_BoundedForRandomWalk(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	closes := make([]float64, 300)
	p := 100.0
	for i := range closes {
		p += rng.NormFloat64()
		if p < 1 {
			p = 1
		}
		closes[i] = p
	}
	for i, r := range RSI(closes, 14) {
		if !r.Valid {
			continue
		}
		if r.Value < 0 || r.Value > 100 || math.IsNaN(r.Value) {
			t.Fatalf("point %d: RSI %.4f out of range", i, r.Value)
		}
	}
}

func TestATR_TrueRangeUsesPreviousClose(t *testing.T) {
	bars := []model.OHLCV{
		{High: 11, Low: 9, Close: 10},
		{High: 15, Low: 13, Close: 14}, // gap up: |15-10| = 5
		{High: 14, Low: 12, Close: 13}, // 2
	}
	tr := TrueRange(bars)
	want := []float64{2, 5, 2}
	for i := range want {
		if tr[i] != want[i] {
			t.Errorf("tr[%d]: expected %.1f, got %.1f", i, want[i], tr[i])
		}
	}
	v, ok := ATR(bars, 3).Last()
	if !ok || math.Abs(v-3) > 1e-9 {
		t.Errorf("expected ATR=3, got %.4f", v)
	}
}

func TestATR_UndefinedBelowPeriod(t *testing.T) {
	if _, err := CalculateATR(makeBars(linear(13, 100, 1)), 14); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	v, err := CalculateATR(makeBars(linear(14, 100, 1)), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// first TR = 2, the rest max(2, |h-prev|=2) = 2
	if math.Abs(v-2) > 1e-9 {
		t.Errorf("expected ATR=2, got %.4f", v)
	}
}

func TestTrendStrength_FallbackAndBounds(t *testing.T) {
	if v := TrendStrength(makeBars(linear(20, 100, 1)), 14); v != DefaultTrendStrength {
		t.Errorf("expected fallback %.0f for short series, got %.2f", DefaultTrendStrength, v)
	}
	v := TrendStrength(makeBars(linear(80, 100, 1)), 14)
	if v < 0 || v > 100 {
		t.Fatalf("ADX out of bounds: %.2f", v)
	}
	if v < 50 {
		t.Errorf("expected strong ADX for a straight-line advance, got %.2f", v)
	}
}

func TestSupportResistance_ShortSeries(t *testing.T) {
	s, r := SupportResistance(makeBars(linear(19, 100, 1)), 2)
	if len(s) != 0 || len(r) != 0 {
		t.Errorf("expected empty levels below 20 bars, got %v %v", s, r)
	}
}

func TestSupportResistance_ZigZag(t *testing.T) {
	// Peaks every 4 bars with distinct heights so every peak is its window max.
	var closes []float64
	for i := 0; i < 10; i++ {
		base := 100 + float64(i)
		closes = append(closes, base, base+5, base+10, base+5)
	}
	bars := makeBars(closes)
	support, resistance := SupportResistance(bars, 2)

	if len(resistance) != MaxLevels || len(support) != MaxLevels {
		t.Fatalf("expected capped lists of %d, got %d support / %d resistance", MaxLevels, len(support), len(resistance))
	}
	for i := 1; i < len(resistance); i++ {
		if !(resistance[i] < resistance[i-1]) {
			t.Errorf("resistance not strictly descending: %v", resistance)
		}
	}
	for i := 1; i < len(support); i++ {
		if !(support[i] > support[i-1]) {
			t.Errorf("support not strictly ascending: %v", support)
		}
	}
	// Bar 38 is too close to the end for a full window, so the top pivot is bar 34.
	if resistance[0] != 119 {
		t.Errorf("expected top resistance 119, got %.2f", resistance[0])
	}
	// Bar 0 has no full window, so the lowest pivot is bar 4.
	if support[0] != 100 {
		t.Errorf("expected lowest support 100, got %.2f", support[0])
	}
}

func TestSupportResistance_DeduplicatesEqualPivots(t *testing.T) {
	var closes []float64
	for i := 0; i < 8; i++ {
		closes = append(closes, 100, 105, 110, 105)
	}
	support, resistance := SupportResistance(makeBars(closes), 2)
	if len(resistance) != 1 || resistance[0] != 111 {
		t.Errorf("expected a single deduplicated resistance 111, got %v", resistance)
	}
	if len(support) != 1 || support[0] != 99 {
		t.Errorf("expected a single deduplicated support 99, got %v", support)
	}
}

func TestSupportResistance_RandomInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		n := 20 + rng.Intn(200)
		closes := make([]float64, n)
		p := 50.0
		for i := range closes {
			p += rng.NormFloat64()
			closes[i] = math.Round(p*100) / 100
		}
		support, resistance := SupportResistance(makeBars(closes), 2)
		if len(support) > MaxLevels || len(resistance) > MaxLevels {
			t.Fatalf("trial %d: more than %d levels", trial, MaxLevels)
		}
		for i := 1; i < len(resistance); i++ {
			if resistance[i] >= resistance[i-1] {
				t.Fatalf("trial %d: resistance not strictly descending %v", trial, resistance)
			}
		}
		for i := 1; i < len(support); i++ {
			if support[i] <= support[i-1] {
				t.Fatalf("trial %d: support not strictly ascending %v", trial, support)
			}
		}
	}
}

func TestTagLevels(t *testing.T) {
	got := TagLevels([]float64{95, 97}, []float64{110, 105})
	want := []model.Level{
		{Price: 110, Kind: model.Resistance},
		{Price: 105, Kind: model.Resistance},
		{Price: 95, Kind: model.Support},
		{Price: 97, Kind: model.Support},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d levels, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("level %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if r := model.PricesOf(got, model.Resistance); len(r) != 2 || r[0] != 110 {
		t.Errorf("resistance prices = %v", r)
	}
	if s := model.PricesOf(TagLevels(nil, nil), model.Support); s == nil || len(s) != 0 {
		t.Errorf("empty levels should give an empty slice, got %v", s)
	}
}

func TestNearestLevels(t *testing.T) {
	levels := []float64{120, 115, 108, 95}
	if v, ok := NearestAbove(levels, 110); !ok || v != 115 {
		t.Errorf("expected 115 above 110, got %.1f (ok=%v)", v, ok)
	}
	if _, ok := NearestAbove(levels, 130); ok {
		t.Error("expected no level above 130")
	}
	if v, ok := NearestBelow(levels, 110); !ok || v != 108 {
		t.Errorf("expected 108 below 110, got %.1f (ok=%v)", v, ok)
	}
	if _, ok := NearestBelow(levels, 90); ok {
		t.Error("expected no level below 90")
	}
}

func TestMarketContext(t *testing.T) {
	bars := makeBars(linear(30, 100, 1))
	bars[len(bars)-1].Volume = 2000
	ctx := MarketContext(bars)
	if !ctx.Volatility.Valid || ctx.Volatility.Value <= 0 {
		t.Errorf("expected positive volatility, got %+v", ctx.Volatility)
	}
	// avg volume over 20 bars = (19*1000 + 2000)/20 = 1050
	if !ctx.VolumeRatio.Valid || math.Abs(ctx.VolumeRatio.Value-2000.0/1050.0) > 1e-9 {
		t.Errorf("unexpected volume ratio %+v", ctx.VolumeRatio)
	}
	if ctx.VolumeStatus != "High" {
		t.Errorf("expected High volume status, got %q", ctx.VolumeStatus)
	}

	short := MarketContext(makeBars([]float64{1, 2}))
	if short.Volatility.Valid || short.VolumeRatio.Valid || short.VolumeStatus != "" {
		t.Errorf("expected unavailable context for 2 bars, got %+v", short)
	}
}

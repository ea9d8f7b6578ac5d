package pattern

import (
	"math"

	"TradingAdvisor/internal/model"
)

const (
	bodyAvgPeriod    = 10   // bars averaged to judge a "long" body
	trendLookback    = 5    // bars compared to detect a preceding advance/decline
	dojiBodyRatio    = 0.1  // body <= 10% of range
	smallBodyRatio   = 0.3  // body <= 30% of range
	longShadowRatio  = 0.6  // dominant shadow >= 60% of range
	shadowBodyFactor = 2.0  // dominant shadow >= 2x body
	tinyShadowRatio  = 0.1  // opposite shadow <= 10% of range
	marubozuShadow   = 0.05 // each shadow <= 5% of range
	starBodyRatio    = 0.3  // star body <= 30% of first body
)

func body(b model.OHLCV) float64      { return math.Abs(b.Close - b.Open) }
func span(b model.OHLCV) float64      { return b.High - b.Low }
func bodyTop(b model.OHLCV) float64   { return math.Max(b.Open, b.Close) }
func bodyBottom(b model.OHLCV) float64 { return math.Min(b.Open, b.Close) }
func upperShadow(b model.OHLCV) float64 { return b.High - bodyTop(b) }
func lowerShadow(b model.OHLCV) float64 { return bodyBottom(b) - b.Low }
func bodyMid(b model.OHLCV) float64   { return (b.Open + b.Close) / 2 }

// avgBody is the mean body of up to bodyAvgPeriod bars before index start.
// With no history it falls back to the body at start.
func avgBody(bars []model.OHLCV, start int) float64 {
	from := start - bodyAvgPeriod
	if from < 0 {
		from = 0
	}
	if from == start {
		return body(bars[start])
	}
	sum := 0.0
	for i := from; i < start; i++ {
		sum += body(bars[i])
	}
	return sum / float64(start-from)
}

// priorDecline reports a lower close on the bar before i than trendLookback bars earlier.
func priorDecline(bars []model.OHLCV, i int) bool {
	if i < trendLookback {
		return false
	}
	return bars[i-1].Close < bars[i-trendLookback].Close
}

func priorAdvance(bars []model.OHLCV, i int) bool {
	if i < trendLookback {
		return false
	}
	return bars[i-1].Close > bars[i-trendLookback].Close
}

// hammerShape: small body at the top, long lower shadow, almost no upper shadow.
func hammerShape(b model.OHLCV) bool {
	r := span(b)
	if r <= 0 {
		return false
	}
	bd, lo := body(b), lowerShadow(b)
	return bd <= smallBodyRatio*r &&
		lo >= shadowBodyFactor*bd &&
		lo >= longShadowRatio*r &&
		upperShadow(b) <= tinyShadowRatio*r
}

// starShape: small body at the bottom, long upper shadow, almost no lower shadow.
func starShape(b model.OHLCV) bool {
	r := span(b)
	if r <= 0 {
		return false
	}
	bd, up := body(b), upperShadow(b)
	return bd <= smallBodyRatio*r &&
		up >= shadowBodyFactor*bd &&
		up >= longShadowRatio*r &&
		lowerShadow(b) <= tinyShadowRatio*r
}

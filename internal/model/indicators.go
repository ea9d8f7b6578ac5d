package model

// Reading is an optional indicator value. Valid is false when the lookback
// window is not filled or the math degenerates; Value is then meaningless.
type Reading struct {
	Value float64
	Valid bool
}

// Some wraps a defined value.
func Some(v float64) Reading { return Reading{Value: v, Valid: true} }

// IndicatorSet is the snapshot of indicators for the latest bar of a series.
type IndicatorSet struct {
	SMAFast       Reading
	SMASlow       Reading
	RSI           Reading
	ATR           Reading
	TrendStrength float64 // ADX, 0~100; neutral 25 when unavailable
}

// MarketContext summarises volatility and participation for the latest bar.
type MarketContext struct {
	Volatility   Reading // annualised, percent
	VolumeRatio  Reading // last volume / 20-bar average volume
	VolumeStatus string  // "High", "Normal", "Low" or "" when unavailable
}

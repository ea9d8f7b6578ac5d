package calculator

import (
	"sort"

	"TradingAdvisor/internal/model"
)

const (
	// MinPivotBars is the shortest series pivots are detected on.
	MinPivotBars = 20
	// MaxLevels caps the support and resistance lists.
	MaxLevels = 5
)

// SupportResistance finds local extrema with a centered window of the given
// radius. A bar's high is a resistance candidate when it equals the highest
// high of its window; its low is a support candidate when it equals the lowest
// low. Values are deduplicated, resistance sorted descending and support
// ascending, and each list is capped at MaxLevels.
func SupportResistance(bars []model.OHLCV, radius int) (support, resistance []float64) {
	if len(bars) < MinPivotBars || radius <= 0 {
		return []float64{}, []float64{}
	}

	seenHigh := make(map[float64]bool)
	seenLow := make(map[float64]bool)
	for i := radius; i < len(bars)-radius; i++ {
		high, low := bars[i].High, bars[i].Low
		maxHigh, minLow := high, low
		for j := i - radius; j <= i+radius; j++ {
			if bars[j].High > maxHigh {
				maxHigh = bars[j].High
			}
			if bars[j].Low < minLow {
				minLow = bars[j].Low
			}
		}
		if high == maxHigh && !seenHigh[high] {
			seenHigh[high] = true
			resistance = append(resistance, high)
		}
		if low == minLow && !seenLow[low] {
			seenLow[low] = true
			support = append(support, low)
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(resistance)))
	sort.Float64s(support)
	if len(resistance) > MaxLevels {
		resistance = resistance[:MaxLevels]
	}
	if len(support) > MaxLevels {
		support = support[:MaxLevels]
	}
	if resistance == nil {
		resistance = []float64{}
	}
	if support == nil {
		support = []float64{}
	}
	return support, resistance
}

// TagLevels merges pivot results into tagged levels: resistance first,
// descending, then support ascending.
func TagLevels(support, resistance []float64) []model.Level {
	out := make([]model.Level, 0, len(support)+len(resistance))
	for _, r := range resistance {
		out = append(out, model.Level{Price: r, Kind: model.Resistance})
	}
	for _, s := range support {
		out = append(out, model.Level{Price: s, Kind: model.Support})
	}
	return out
}

// NearestAbove returns the smallest level strictly above price.
func NearestAbove(levels []float64, price float64) (float64, bool) {
	best, found := 0.0, false
	for _, l := range levels {
		if l > price && (!found || l < best) {
			best, found = l, true
		}
	}
	return best, found
}

// NearestBelow returns the largest level strictly below price.
func NearestBelow(levels []float64, price float64) (float64, bool) {
	best, found := 0.0, false
	for _, l := range levels {
		if l < price && (!found || l > best) {
			best, found = l, true
		}
	}
	return best, found
}

// Package pattern detects candlestick formations over a bar series.
package pattern

import (
	"sort"
	"strings"

	"TradingAdvisor/internal/model"
)

// MinBars is the shortest series Classify will look at.
const MinBars = 10

// Names lists the supported formations in canonical order.
var Names = []model.PatternName{
	model.PatternDoji,
	model.PatternHammer,
	model.PatternHangingMan,
	model.PatternShootingStar,
	model.PatternMarubozu,
	model.PatternEngulfing,
	model.PatternHarami,
	model.PatternMorningStar,
	model.PatternEveningStar,
	model.PatternThreeWhiteSoldiers,
	model.PatternThreeBlackCrows,
}

type detector func(bars []model.OHLCV, i int) int

var detectors = map[model.PatternName]detector{
	model.PatternDoji:               doji,
	model.PatternHammer:             hammer,
	model.PatternHangingMan:         hangingMan,
	model.PatternShootingStar:       shootingStar,
	model.PatternMarubozu:           marubozu,
	model.PatternEngulfing:          engulfing,
	model.PatternHarami:             harami,
	model.PatternMorningStar:        morningStar,
	model.PatternEveningStar:        eveningStar,
	model.PatternThreeWhiteSoldiers: threeWhiteSoldiers,
	model.PatternThreeBlackCrows:    threeBlackCrows,
}

// Classify returns, for every supported formation, a per-bar signal of
// +1 (bullish), -1 (bearish) or 0. Series shorter than MinBars yield an
// empty map.
func Classify(bars []model.OHLCV) map[model.PatternName][]int {
	out := make(map[model.PatternName][]int, len(Names))
	if len(bars) < MinBars {
		return out
	}
	for _, name := range Names {
		detect := detectors[name]
		signal := make([]int, len(bars))
		for i := range bars {
			signal[i] = detect(bars, i)
		}
		out[name] = signal
	}
	return out
}

// Recent collects the non-zero occurrences inside the trailing window bars,
// most recent bar first and canonical order within a bar.
func Recent(signals map[model.PatternName][]int, bars []model.OHLCV, window int) []model.PatternSignal {
	if len(signals) == 0 || window <= 0 {
		return nil
	}
	start := len(bars) - window
	if start < 0 {
		start = 0
	}

	var found []model.PatternSignal
	for _, name := range Names {
		series, ok := signals[name]
		if !ok {
			continue
		}
		for i := start; i < len(bars) && i < len(series); i++ {
			if series[i] == 0 {
				continue
			}
			polarity := model.Bullish
			if series[i] < 0 {
				polarity = model.Bearish
			}
			found = append(found, model.PatternSignal{
				Name:     name,
				Polarity: polarity,
				BarIndex: i,
				Time:     bars[i].Time,
			})
		}
	}

	order := make(map[model.PatternName]int, len(Names))
	for rank, name := range Names {
		order[name] = rank
	}
	sort.SliceStable(found, func(a, b int) bool {
		if found[a].BarIndex != found[b].BarIndex {
			return found[a].BarIndex > found[b].BarIndex
		}
		return order[found[a].Name] < order[found[b].Name]
	})
	return found
}

// Lookup resolves a case-insensitive formation name.
func Lookup(name string) (model.PatternName, bool) {
	for _, n := range Names {
		if strings.EqualFold(string(n), strings.TrimSpace(name)) {
			return n, true
		}
	}
	return "", false
}

func doji(bars []model.OHLCV, i int) int {
	b := bars[i]
	r := span(b)
	if r > 0 && body(b) <= dojiBodyRatio*r {
		return 1
	}
	return 0
}

func hammer(bars []model.OHLCV, i int) int {
	if hammerShape(bars[i]) && priorDecline(bars, i) {
		return 1
	}
	return 0
}

func hangingMan(bars []model.OHLCV, i int) int {
	if hammerShape(bars[i]) && priorAdvance(bars, i) {
		return -1
	}
	return 0
}

func shootingStar(bars []model.OHLCV, i int) int {
	if starShape(bars[i]) {
		return -1
	}
	return 0
}

func marubozu(bars []model.OHLCV, i int) int {
	b := bars[i]
	r := span(b)
	if r <= 0 || upperShadow(b) > marubozuShadow*r || lowerShadow(b) > marubozuShadow*r {
		return 0
	}
	switch {
	case b.Bullish():
		return 1
	case b.Bearish():
		return -1
	}
	return 0
}

func engulfing(bars []model.OHLCV, i int) int {
	if i < 1 {
		return 0
	}
	prev, cur := bars[i-1], bars[i]
	switch {
	case prev.Bearish() && cur.Bullish():
		if cur.Open <= prev.Close && cur.Close >= prev.Open &&
			(cur.Open < prev.Close || cur.Close > prev.Open) {
			return 1
		}
	case prev.Bullish() && cur.Bearish():
		if cur.Open >= prev.Close && cur.Close <= prev.Open &&
			(cur.Open > prev.Close || cur.Close < prev.Open) {
			return -1
		}
	}
	return 0
}

func harami(bars []model.OHLCV, i int) int {
	if i < 1 {
		return 0
	}
	prev, cur := bars[i-1], bars[i]
	if !(prev.Bearish() && cur.Bullish()) && !(prev.Bullish() && cur.Bearish()) {
		return 0
	}
	if body(cur) >= body(prev) {
		return 0
	}
	if bodyTop(cur) > bodyTop(prev) || bodyBottom(cur) < bodyBottom(prev) {
		return 0
	}
	if cur.Bullish() {
		return 1
	}
	return -1
}

func morningStar(bars []model.OHLCV, i int) int {
	if i < 2 {
		return 0
	}
	first, star, last := bars[i-2], bars[i-1], bars[i]
	if !first.Bearish() || body(first) < avgBody(bars, i-2) {
		return 0
	}
	if body(star) > starBodyRatio*body(first) || bodyTop(star) >= first.Close {
		return 0
	}
	if !last.Bullish() || last.Open <= bodyTop(star) || last.Close <= bodyMid(first) {
		return 0
	}
	return 1
}

func eveningStar(bars []model.OHLCV, i int) int {
	if i < 2 {
		return 0
	}
	first, star, last := bars[i-2], bars[i-1], bars[i]
	if !first.Bullish() || body(first) < avgBody(bars, i-2) {
		return 0
	}
	if body(star) > starBodyRatio*body(first) || bodyBottom(star) <= first.Close {
		return 0
	}
	if !last.Bearish() || last.Open >= bodyBottom(star) || last.Close >= bodyMid(first) {
		return 0
	}
	return -1
}

func threeWhiteSoldiers(bars []model.OHLCV, i int) int {
	if i < 2 {
		return 0
	}
	for k := i - 2; k <= i; k++ {
		if !bars[k].Bullish() {
			return 0
		}
	}
	for k := i - 1; k <= i; k++ {
		prev, cur := bars[k-1], bars[k]
		if cur.Open < prev.Open || cur.Open > prev.Close || cur.Close <= prev.Close {
			return 0
		}
	}
	return 1
}

func threeBlackCrows(bars []model.OHLCV, i int) int {
	if i < 2 {
		return 0
	}
	for k := i - 2; k <= i; k++ {
		if !bars[k].Bearish() {
			return 0
		}
	}
	for k := i - 1; k <= i; k++ {
		prev, cur := bars[k-1], bars[k]
		if cur.Open > prev.Open || cur.Open < prev.Close || cur.Close >= prev.Close {
			return 0
		}
	}
	return -1
}

package pattern

import "TradingAdvisor/internal/model"

// Info is the reference card shown for a formation.
type Info struct {
	Name        model.PatternName
	Candles     int
	Signal      string
	Reliability string
	Formation   string
}

var library = map[model.PatternName]Info{
	model.PatternDoji: {
		Candles: 1, Signal: "Indecision, reversal depends on context", Reliability: "Medium",
		Formation: "Open and close almost equal, shadows on both sides",
	},
	model.PatternHammer: {
		Candles: 1, Signal: "Bullish reversal after a decline", Reliability: "High",
		Formation: "Small body near the high, lower shadow at least twice the body",
	},
	model.PatternHangingMan: {
		Candles: 1, Signal: "Bearish reversal after an advance", Reliability: "Medium",
		Formation: "Hammer shape appearing at the top of a rally",
	},
	model.PatternShootingStar: {
		Candles: 1, Signal: "Bearish reversal", Reliability: "High",
		Formation: "Small body near the low, long upper shadow",
	},
	model.PatternMarubozu: {
		Candles: 1, Signal: "Continuation in the body's direction", Reliability: "High",
		Formation: "Full body with little or no shadow",
	},
	model.PatternEngulfing: {
		Candles: 2, Signal: "Reversal in the second candle's direction", Reliability: "High",
		Formation: "Second body fully covers the opposite-coloured first body",
	},
	model.PatternHarami: {
		Candles: 2, Signal: "Reversal in the second candle's direction", Reliability: "Medium",
		Formation: "Small opposite-coloured body inside the previous body",
	},
	model.PatternMorningStar: {
		Candles: 3, Signal: "Bullish reversal", Reliability: "Very High",
		Formation: "Long red candle, small star gapping lower, green candle closing past the first midpoint",
	},
	model.PatternEveningStar: {
		Candles: 3, Signal: "Bearish reversal", Reliability: "Very High",
		Formation: "Long green candle, small star gapping higher, red candle closing past the first midpoint",
	},
	model.PatternThreeWhiteSoldiers: {
		Candles: 3, Signal: "Bullish continuation", Reliability: "High",
		Formation: "Three green candles, each opening inside the prior body and closing higher",
	},
	model.PatternThreeBlackCrows: {
		Candles: 3, Signal: "Bearish continuation", Reliability: "High",
		Formation: "Three red candles, each opening inside the prior body and closing lower",
	},
}

// Describe returns the reference card for name. ok is false for unknown names.
func Describe(name model.PatternName) (Info, bool) {
	info, ok := library[name]
	if !ok {
		return Info{}, false
	}
	info.Name = name
	return info, true
}

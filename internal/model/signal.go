package model

import "time"

// TriggerType indicates what triggered an evaluation.
type TriggerType string

const (
	TriggerDaily  TriggerType = "DAILY"
	TriggerScan   TriggerType = "SCAN"
	TriggerManual TriggerType = "MANUAL"
)

// PatternName identifies a candlestick formation.
type PatternName string

const (
	PatternDoji               PatternName = "Doji"
	PatternHammer             PatternName = "Hammer"
	PatternHangingMan         PatternName = "Hanging Man"
	PatternShootingStar       PatternName = "Shooting Star"
	PatternMarubozu           PatternName = "Marubozu"
	PatternEngulfing          PatternName = "Engulfing"
	PatternHarami             PatternName = "Harami"
	PatternMorningStar        PatternName = "Morning Star"
	PatternEveningStar        PatternName = "Evening Star"
	PatternThreeWhiteSoldiers PatternName = "Three White Soldiers"
	PatternThreeBlackCrows    PatternName = "Three Black Crows"
)

// Polarity is the directional reading of a pattern occurrence.
type Polarity string

const (
	Bullish Polarity = "Bullish"
	Bearish Polarity = "Bearish"
)

// PatternSignal is one occurrence of a formation on a bar.
type PatternSignal struct {
	Name     PatternName
	Polarity Polarity
	BarIndex int
	Time     time.Time
}

// String renders the signal as "Name (Polarity)".
func (p PatternSignal) String() string {
	return string(p.Name) + " (" + string(p.Polarity) + ")"
}

// LevelKind tags a support/resistance price.
type LevelKind string

const (
	Support    LevelKind = "SUPPORT"
	Resistance LevelKind = "RESISTANCE"
)

// Level is a support or resistance price derived from a pivot.
type Level struct {
	Price float64
	Kind  LevelKind
}

// PricesOf returns the prices of the levels of one kind, in their order.
func PricesOf(levels []Level, kind LevelKind) []float64 {
	out := []float64{}
	for _, l := range levels {
		if l.Kind == kind {
			out = append(out, l.Price)
		}
	}
	return out
}

// Trend is the classifier state.
type Trend string

const (
	Uptrend          Trend = "Uptrend"
	Downtrend        Trend = "Downtrend"
	Sideways         Trend = "Sideways"
	InsufficientData Trend = "Insufficient Data"
)

// TrendResult pairs a trend state with a strength score in [0, 100].
type TrendResult struct {
	State    Trend
	Strength float64
}

// Direction of a trade plan.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
	Wait  Direction = "WAIT"
)

// TradePlan is the directional entry/stop/target recommendation.
// A WAIT plan carries only Message.
type TradePlan struct {
	Direction      Direction
	Entry          float64
	StopLoss       float64
	TakeProfitNear float64
	TakeProfitFar  float64
	RiskReward     Reading
	Message        string
}

// HasLevels reports whether the price fields are meaningful.
func (p TradePlan) HasLevels() bool {
	return p.Direction == Long || p.Direction == Short
}

// RiskAssessment is the position sizing result. When Available is false only
// Message is set.
type RiskAssessment struct {
	Available    bool
	AccountSize  float64
	RiskFraction float64
	RiskPerUnit  float64
	MaxUnits     int64
	TotalRisk    float64
	Message      string
}

// TradingPlan is the assembled report for one instrument.
type TradingPlan struct {
	Symbol       string
	Date         time.Time
	CurrentPrice float64
	Volume       float64
	Bars         int
	Indicators   IndicatorSet
	Trend        TrendResult
	Patterns     []PatternSignal
	KeyLevels    []Level
	Levels       TradePlan
	Risk         RiskAssessment
	Context      MarketContext
	Actions      []string
	TriggerType  TriggerType
}

// ScanResult is one row of a multi-symbol scan.
type ScanResult struct {
	Symbol   string
	Price    float64
	Volume   float64
	Trend    TrendResult
	Patterns []PatternSignal
	Levels   TradePlan
}

// MarketSnapshot is a quote line of the market overview: the last close,
// its change against the day's open and a few latest indicators.
type MarketSnapshot struct {
	Symbol        string
	Date          time.Time
	Price         float64
	ChangePercent Reading
	SMAFast       Reading
	RSI           Reading
	ATR           Reading
}

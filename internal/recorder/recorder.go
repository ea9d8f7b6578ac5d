package recorder

import (
	"time"

	"TradingAdvisor/internal/model"
)

// ScanRun is one scan over a watchlist. ID is assigned on record when empty.
type ScanRun struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Results   []model.ScanResult
	Failed    int
}

// AccountEvent records an account setting change.
type AccountEvent struct {
	EventType      string // "SET_SIZE" or "SET_RISK"
	SizeBefore     float64
	SizeAfter      float64
	FractionBefore float64
	FractionAfter  float64
	Note           string
}

// SignalRecord is one stored trading plan.
type SignalRecord struct {
	ID             int64
	RecordedAt     time.Time
	BarDate        string
	Symbol         string
	TriggerType    model.TriggerType
	Price          float64
	Trend          model.Trend
	Strength       float64
	Direction      model.Direction
	Entry          float64
	StopLoss       float64
	TakeProfitNear float64
	TakeProfitFar  float64
	RiskReward     model.Reading
	RSI            model.Reading
	MaxUnits       int64
	Patterns       string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordPlan(plan *model.TradingPlan) error
	RecordScan(run *ScanRun) (string, error)
	RecordAccountEvent(evt *AccountEvent) error
	RecentSignals(limit int) ([]SignalRecord, error)
	Close() error
}

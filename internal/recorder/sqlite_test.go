package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"TradingAdvisor/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "advisor.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func samplePlan(symbol string, dir model.Direction) *model.TradingPlan {
	return &model.TradingPlan{
		Symbol:       symbol,
		Date:         time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC),
		CurrentPrice: 160,
		Indicators:   model.IndicatorSet{RSI: model.Some(71.5), SMAFast: model.Some(150)},
		Trend:        model.TrendResult{State: model.Uptrend, Strength: 32},
		Patterns: []model.PatternSignal{
			{Name: model.PatternEngulfing, Polarity: model.Bullish},
			{Name: model.PatternDoji, Polarity: model.Bullish},
		},
		Levels: model.TradePlan{
			Direction: dir, Entry: 160, StopLoss: 156, TakeProfitNear: 164, TakeProfitFar: 168,
			RiskReward: model.Some(1),
		},
		KeyLevels: []model.Level{
			{Price: 170, Kind: model.Resistance},
			{Price: 145, Kind: model.Support},
		},
		Risk:        model.RiskAssessment{Available: true, MaxUnits: 50, TotalRisk: 200},
		TriggerType: model.TriggerDaily,
	}
}

func TestRecordPlanAndRecentSignals(t *testing.T) {
	r := openTemp(t)

	if err := r.RecordPlan(samplePlan("AAPL", model.Long)); err != nil {
		t.Fatalf("record AAPL: %v", err)
	}
	wait := samplePlan("MSFT", model.Wait)
	wait.Levels = model.TradePlan{Direction: model.Wait, Message: "wait"}
	wait.Indicators = model.IndicatorSet{}
	wait.Risk = model.RiskAssessment{Message: "No position recommended"}
	if err := r.RecordPlan(wait); err != nil {
		t.Fatalf("record MSFT: %v", err)
	}

	got, err := r.RecentSignals(10)
	if err != nil {
		t.Fatalf("RecentSignals: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	// Same-second inserts fall back to id order.
	if got[0].Symbol != "MSFT" || got[1].Symbol != "AAPL" {
		t.Errorf("order = %s, %s; want newest first", got[0].Symbol, got[1].Symbol)
	}
	aapl := got[1]
	if aapl.Direction != model.Long || aapl.Entry != 160 || aapl.MaxUnits != 50 {
		t.Errorf("AAPL row = %+v", aapl)
	}
	if !aapl.RSI.Valid || aapl.RSI.Value != 71.5 || !aapl.RiskReward.Valid {
		t.Errorf("AAPL readings = %+v / %+v", aapl.RSI, aapl.RiskReward)
	}
	if aapl.Patterns != "Engulfing (Bullish), Doji (Bullish)" || aapl.BarDate != "2024-05-17" {
		t.Errorf("AAPL patterns=%q date=%q", aapl.Patterns, aapl.BarDate)
	}
	if got[0].RSI.Valid || got[0].RiskReward.Valid {
		t.Errorf("undefined readings must come back invalid: %+v", got[0])
	}

	if got[0].Entry != 0 || got[0].MaxUnits != 0 {
		t.Errorf("WAIT row carries levels: %+v", got[0])
	}

	var nulls int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM trading_signals
		WHERE symbol = 'MSFT' AND entry IS NULL AND stop_loss IS NULL AND take_profit_near IS NULL
		AND take_profit_far IS NULL AND max_units IS NULL AND total_risk IS NULL`).Scan(&nulls); err != nil {
		t.Fatalf("count nulls: %v", err)
	}
	if nulls != 1 {
		t.Error("WAIT plan price and sizing columns must be NULL")
	}
	var levels string
	if err := r.db.QueryRow(`SELECT key_levels FROM trading_signals WHERE symbol = 'AAPL'`).Scan(&levels); err != nil {
		t.Fatalf("query levels: %v", err)
	}
	if levels != "R 170.00, S 145.00" {
		t.Errorf("key_levels = %q", levels)
	}

	limited, err := r.RecentSignals(1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("limit 1: %d rows, err %v", len(limited), err)
	}
}

func TestRecordScan(t *testing.T) {
	r := openTemp(t)
	run := &ScanRun{
		StartedAt: time.Now(),
		Results: []model.ScanResult{
			{Symbol: "AAPL", Price: 190, Trend: model.TrendResult{State: model.Uptrend}},
			{Symbol: "TSLA", Price: 170, Trend: model.TrendResult{State: model.Downtrend}},
		},
	}
	id, err := r.RecordScan(run)
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if id == "" || run.ID != id {
		t.Fatalf("scan id %q not assigned to run (%q)", id, run.ID)
	}

	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM scan_results WHERE scan_id = ?`, id).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("stored %d rows, want 2", n)
	}

	second, err := r.RecordScan(&ScanRun{Results: run.Results[:1]})
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if second == id {
		t.Error("expected a fresh id for the second scan")
	}
}

func TestRecordAccountEvent(t *testing.T) {
	r := openTemp(t)
	if err := r.RecordAccountEvent(&AccountEvent{EventType: "SET_SIZE", SizeBefore: 10000, SizeAfter: 20000}); err != nil {
		t.Fatalf("RecordAccountEvent: %v", err)
	}
	var after float64
	if err := r.db.QueryRow(`SELECT size_after FROM account_history`).Scan(&after); err != nil {
		t.Fatalf("query: %v", err)
	}
	if after != 20000 {
		t.Errorf("size_after = %.0f", after)
	}
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	if err := rec.RecordPlan(samplePlan("X", model.Long)); err != nil {
		t.Error(err)
	}
	if rows, err := rec.RecentSignals(5); err != nil || rows != nil {
		t.Errorf("noop RecentSignals = %v, %v", rows, err)
	}
	if id, err := rec.RecordScan(&ScanRun{ID: "fixed"}); err != nil || id != "fixed" {
		t.Errorf("noop RecordScan = %q, %v", id, err)
	}
}

package strategy

import (
	"testing"

	"TradingAdvisor/internal/model"
)

func TestSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		series    *model.PriceSeries
		price     float64
		change    float64
		sma       bool
		rsi       bool
		atr       bool
		undefined bool
	}{
		{"full history", makeSeries("SPY", rising(60, 100, 159), -1), 159, 1.0 / 158 * 100, true, true, true, false},
		{"short history", makeSeries("QQQ", rising(15, 100, 114), 0), 114, 0, false, true, true, false},
		{"too short for rsi", makeSeries("IWM", rising(10, 100, 109), 0), 109, 0, false, false, false, false},
		{"empty", &model.PriceSeries{Symbol: "DIA"}, 0, 0, false, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot(tt.series, DefaultParams())
			if snap.Symbol != tt.series.Symbol || snap.Price != tt.price {
				t.Errorf("snapshot = %+v", snap)
			}
			if snap.ChangePercent.Valid == tt.undefined || (!tt.undefined && !near(snap.ChangePercent.Value, tt.change)) {
				t.Errorf("change = %+v, want %.4f", snap.ChangePercent, tt.change)
			}
			if snap.SMAFast.Valid != tt.sma || snap.RSI.Valid != tt.rsi || snap.ATR.Valid != tt.atr {
				t.Errorf("validity sma=%v rsi=%v atr=%v", snap.SMAFast.Valid, snap.RSI.Valid, snap.ATR.Valid)
			}
		})
	}

	if snap := Snapshot(nil, Params{}); snap.Symbol != "" || snap.ChangePercent.Valid {
		t.Errorf("nil series gave %+v", snap)
	}
}

func TestSnapshot_MatchesPlanIndicators(t *testing.T) {
	series := makeSeries("SPY", rising(80, 100, 140), 0.5)
	snap := Snapshot(series, DefaultParams())
	plan := Evaluate(series, DefaultParams())
	if !near(snap.SMAFast.Value, plan.Indicators.SMAFast.Value) ||
		!near(snap.RSI.Value, plan.Indicators.RSI.Value) ||
		!near(snap.ATR.Value, plan.Indicators.ATR.Value) {
		t.Errorf("snapshot %+v disagrees with plan indicators %+v", snap, plan.Indicators)
	}
}

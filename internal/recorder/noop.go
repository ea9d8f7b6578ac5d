package recorder

import "TradingAdvisor/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPlan(_ *model.TradingPlan) error       { return nil }
func (n *NoopRecorder) RecordScan(run *ScanRun) (string, error)     { return run.ID, nil }
func (n *NoopRecorder) RecordAccountEvent(_ *AccountEvent) error    { return nil }
func (n *NoopRecorder) RecentSignals(_ int) ([]SignalRecord, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                { return nil }

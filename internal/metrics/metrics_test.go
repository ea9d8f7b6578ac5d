package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestServeRegistersMetrics(t *testing.T) {
	srv := Serve(":0")
	defer srv.Close()

	PlansTotal.WithLabelValues("Uptrend").Inc()
	FetchErrors.WithLabelValues("yahoo").Inc()
	ScanDuration.Observe(0.5)

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	want := map[string]bool{
		"advisor_plans_total":           false,
		"advisor_fetch_errors_total":    false,
		"advisor_scan_duration_seconds": false,
	}
	for _, mf := range mfs {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s metric not found", name)
		}
	}
}

func TestCacheHitsCounter(t *testing.T) {
	before := testutil.ToFloat64(CacheHits)
	CacheHits.Inc()
	if got := testutil.ToFloat64(CacheHits); got != before+1 {
		t.Fatalf("cache hits = %.0f, want %.0f", got, before+1)
	}
}

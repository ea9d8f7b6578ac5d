package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PlansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "advisor_plans_total", Help: "Trading plans evaluated, by trend state"},
		[]string{"trend"},
	)
	FetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "advisor_fetch_errors_total", Help: "Market data fetch failures"},
		[]string{"source"},
	)
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "advisor_cache_hits_total", Help: "Price series served from cache"},
	)
	ScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "advisor_scan_duration_seconds",
		Help:    "Wall time of a watchlist scan",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(PlansTotal, FetchErrors, CacheHits, ScanDuration)
}

// Serve exposes /metrics on addr in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Report run counters and timings, exported in scheduled mode.
var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guardreport",
		Name:      "runs_total",
		Help:      "Report generation runs by outcome.",
	}, []string{"outcome"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "guardreport",
		Name:      "run_duration_seconds",
		Help:      "Wall time of one report generation run.",
		Buckets:   prometheus.DefBuckets,
	})

	EventsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "guardreport",
		Name:      "events_fetched_total",
		Help:      "Events fetched from the store across all runs.",
	})

	EventsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "guardreport",
		Name:      "events_skipped_total",
		Help:      "Malformed events skipped during normalization.",
	})
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values shared by the counters below.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"

	ReadHit     = "hit"
	ReadNoValue = "no_value"
	ReadMiss    = "miss"
)

var (
	// RefreshTotal counts background refresh attempts per asset, by outcome.
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "volpulse",
		Name:      "refresh_total",
		Help:      "Background volatility refresh attempts by outcome.",
	}, []string{"outcome"})

	// TickTotal counts scheduler ticks, including skipped ones.
	TickTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "volpulse",
		Name:      "tick_total",
		Help:      "Scheduler ticks by outcome (success or skipped).",
	}, []string{"outcome"})

	// RefreshDuration observes how long a full refresh pass takes.
	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "volpulse",
		Name:      "refresh_duration_seconds",
		Help:      "Duration of a full scheduler refresh pass.",
		Buckets:   prometheus.DefBuckets,
	})

	// FirstTouchTotal counts synchronous first-touch computations, by outcome.
	FirstTouchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "volpulse",
		Name:      "first_touch_total",
		Help:      "Synchronous first-touch fetch+compute attempts by outcome.",
	}, []string{"outcome"})

	// CacheReads counts query-path registry reads: hit, no_value, miss.
	CacheReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "volpulse",
		Name:      "cache_reads_total",
		Help:      "Registry reads on the query path by result.",
	}, []string{"result"})
)

// Handler exposes the default prometheus registry, mounted at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

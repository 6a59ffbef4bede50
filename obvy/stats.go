package nrscope

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsInternal is the app-private prometheus registry.
// One instance is attached to a View and served on /metrics.
type StatsInternal struct {
	Registry   *prometheus.Registry
	Recomputes prometheus.Counter
	CompTimer  prometheus.Histogram
	WWW        *prometheus.CounterVec
	WSFrames   prometheus.Counter
}

// NewStatsInternal builds the registry with all collectors attached.
func NewStatsInternal() *StatsInternal {
	reg := prometheus.NewRegistry()

	s := &StatsInternal{
		Registry: reg,
		Recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nrscope_recomputes_total",
			Help: "Scenario recomputations triggered by interaction or API calls.",
		}),
		CompTimer: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nrscope_recompute_duration_seconds",
			Help:    "Wall time of a full scenario recompute.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		WWW: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nrscope_http_responses_total",
			Help: "HTTP responses by status code and method.",
		}, []string{"code", "method"}),
		WSFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nrscope_websocket_frames_total",
			Help: "Snapshot frames pushed over the websocket.",
		}),
	}

	reg.MustRegister(s.Recomputes, s.CompTimer, s.WWW, s.WSFrames)

	return s
}

// Handler serves this registry for the /metrics route.
func (s *StatsInternal) Handler() http.Handler {
	return promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})
}

// RecRecompute counts one recompute.
func (s *StatsInternal) RecRecompute() {
	s.Recomputes.Inc()
}

// RecCompTimer records a recompute duration in seconds.
func (s *StatsInternal) RecCompTimer(seconds float64) {
	s.CompTimer.Observe(seconds)
}

// RecWWW counts one HTTP response.
func (s *StatsInternal) RecWWW(code, method string) {
	s.WWW.WithLabelValues(code, method).Inc()
}

// RecWSFrame counts one websocket push.
func (s *StatsInternal) RecWSFrame() {
	s.WSFrames.Inc()
}

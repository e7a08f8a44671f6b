package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/lifelink/lifelink-web/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Upstream (LifeLink backend) metrics

	UpstreamRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lifelink",
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of calls to the backend API.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "status"})

	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lifelink",
		Name:      "upstream_requests_total",
		Help:      "Total calls to the backend API, by method and status.",
	}, []string{"method", "status"})

	// Poller metrics

	PollerRefreshDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lifelink",
		Name:      "poller_refresh_duration_seconds",
		Help:      "Duration of one snapshot refresh cycle.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"poller", "outcome"})

	PollerStaleDropsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lifelink",
		Name:      "poller_stale_drops_total",
		Help:      "Refresh results dropped because a newer cycle already applied.",
	}, []string{"poller"})

	// Session metrics

	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "lifelink",
		Name:      "sessions_active",
		Help:      "Browser sessions currently held by the store.",
	})

	SessionsSweptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lifelink",
		Name:      "sessions_swept_total",
		Help:      "Idle browser sessions removed by the janitor.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lifelink",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lifelink",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		UpstreamRequestDuration,
		UpstreamRequestsTotal,
		PollerRefreshDuration,
		PollerStaleDropsTotal,
		SessionsActive,
		SessionsSweptTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus liveness and readiness probes.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Verification metrics
	VerificationsTotal   *prometheus.CounterVec
	VerificationDuration prometheus.Histogram
	ClaimsRecorded       prometheus.Counter
	TokensBurned         prometheus.Counter

	// Upstream metrics
	RPCCallLatency *prometheus.HistogramVec

	// Storage metrics
	ClaimStoreLatency *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "burn_gate"
	}

	return &Metrics{
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "requests_total",
			Help:      "Total number of verification requests by outcome",
		}, []string{"outcome"}),
		VerificationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "duration_seconds",
			Help:      "Verification request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		ClaimsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "claims_recorded_total",
			Help:      "Total number of burn claims recorded",
		}),
		TokensBurned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "tokens_burned_total",
			Help:      "Total verified burned amount in token units (approximate)",
		}),
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		ClaimStoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "claim_query_latency_seconds",
			Help:      "Claim ledger query latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordVerification records one verification attempt.
func RecordVerification(outcome string, seconds float64) {
	DefaultMetrics.VerificationsTotal.WithLabelValues(outcome).Inc()
	DefaultMetrics.VerificationDuration.Observe(seconds)
}

// RecordClaimRecorded records a successfully recorded claim. The amount is
// approximate here; exact amounts live in the claim ledger.
func RecordClaimRecorded(amount float64) {
	DefaultMetrics.ClaimsRecorded.Inc()
	if amount > 0 {
		DefaultMetrics.TokensBurned.Add(amount)
	}
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordClaimStoreLatency records claim ledger query latency.
func RecordClaimStoreLatency(op string, seconds float64) {
	DefaultMetrics.ClaimStoreLatency.WithLabelValues(op).Observe(seconds)
}

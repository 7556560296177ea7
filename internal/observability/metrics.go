// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Submission metrics
	SubmissionsTotal  *prometheus.CounterVec // labels: op_type
	OutcomesTotal     *prometheus.CounterVec // labels: op_type, outcome
	FeesPaidMicro     prometheus.Counter
	BalanceGuardTrips prometheus.Counter

	// Solver metrics
	ProbeAttemptsTotal *prometheus.CounterVec // labels: class
	ProbesSolved       prometheus.Counter

	// Node metrics
	NodeCallLatency *prometheus.HistogramVec // labels: method
	NodeCallErrors  *prometheus.CounterVec   // labels: method
	NodeRetries     prometheus.Counter

	// Confirmation metrics
	ConfirmationLatency prometheus.Histogram

	// Health metrics
	WalletBalanceMicro prometheus.Gauge
	NodeLastRound      prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "algorand_defi_lab"
	}

	return &Metrics{
		SubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submit",
			Name:      "submissions_total",
			Help:      "Total number of transactions submitted",
		}, []string{"op_type"}),
		OutcomesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submit",
			Name:      "outcomes_total",
			Help:      "Terminal outcomes of submitted transactions",
		}, []string{"op_type", "outcome"}),
		FeesPaidMicro: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submit",
			Name:      "fees_paid_microalgos_total",
			Help:      "Total fees paid on confirmed transactions, in microalgos",
		}),
		BalanceGuardTrips: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submit",
			Name:      "balance_guard_trips_total",
			Help:      "Submissions refused because the wallet balance was below the floor",
		}),
		ProbeAttemptsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "probe_attempts_total",
			Help:      "Solver probe attempts by classification",
		}, []string{"class"}),
		ProbesSolved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "probes_solved_total",
			Help:      "Probe runs that found an accepted argument set",
		}),
		NodeCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "call_latency_seconds",
			Help:      "Latency of algod API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		NodeCallErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "call_errors_total",
			Help:      "Failed algod API calls",
		}, []string{"method"}),
		NodeRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "retries_total",
			Help:      "Retried algod API calls after transient failures",
		}),
		ConfirmationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "submit",
			Name:      "confirmation_latency_seconds",
			Help:      "Time from submission to terminal confirmation state",
			Buckets:   []float64{1, 2, 4, 8, 15, 30, 60},
		}),
		WalletBalanceMicro: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "balance_microalgos",
			Help:      "Last observed wallet balance in microalgos",
		}),
		NodeLastRound: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "last_round",
			Help:      "Last round reported by the node",
		}),
	}
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSubmission increments the submissions counter.
func RecordSubmission(opType string) {
	DefaultMetrics.SubmissionsTotal.WithLabelValues(opType).Inc()
}

// RecordOutcome records a terminal outcome and, when confirmed, the fee paid.
func RecordOutcome(opType, outcome string, feeMicro uint64) {
	DefaultMetrics.OutcomesTotal.WithLabelValues(opType, outcome).Inc()
	if feeMicro > 0 {
		DefaultMetrics.FeesPaidMicro.Add(float64(feeMicro))
	}
}

// RecordBalanceGuardTrip increments the balance guard counter.
func RecordBalanceGuardTrip() {
	DefaultMetrics.BalanceGuardTrips.Inc()
}

// RecordProbeAttempt records a classified solver attempt.
func RecordProbeAttempt(class string) {
	DefaultMetrics.ProbeAttemptsTotal.WithLabelValues(class).Inc()
	if class == "confirmed" {
		DefaultMetrics.ProbesSolved.Inc()
	}
}

// RecordNodeCall records node call latency and errors.
func RecordNodeCall(method string, seconds float64, err error) {
	DefaultMetrics.NodeCallLatency.WithLabelValues(method).Observe(seconds)
	if err != nil {
		DefaultMetrics.NodeCallErrors.WithLabelValues(method).Inc()
	}
}

// RecordConfirmationLatency records time to terminal state.
func RecordConfirmationLatency(seconds float64) {
	DefaultMetrics.ConfirmationLatency.Observe(seconds)
}

// UpdateWalletBalance updates the balance gauge.
func UpdateWalletBalance(amountMicro uint64) {
	DefaultMetrics.WalletBalanceMicro.Set(float64(amountMicro))
}

// UpdateLastRound updates the node round gauge.
func UpdateLastRound(round uint64) {
	DefaultMetrics.NodeLastRound.Set(float64(round))
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

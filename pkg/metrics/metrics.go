package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "walletwatch"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

var (
	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_total",
		Help:      "Wallet fetch operations by operation and outcome.",
	}, []string{"op", "outcome"})

	FetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Latency of wallet fetch operations that reached the network.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	Registry = prometheus.NewRegistry()
)

func init() {
	Registry.MustRegister(FetchTotal, FetchDuration)
}

// Observe records one finished fetch.
func Observe(op, outcome string, started time.Time) {
	FetchTotal.WithLabelValues(op, outcome).Inc()
	if outcome != OutcomeSkipped {
		FetchDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	}
}

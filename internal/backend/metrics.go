package backend

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	backendCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talonbot",
			Name:      "backend_calls_total",
			Help:      "Backend REST calls by call name and outcome.",
		},
		[]string{"call", "outcome"},
	)
)

// RegisterMetrics registers Prometheus metrics. Safe to call multiple times.
func RegisterMetrics() {
	once.Do(func() {
		prometheus.MustRegister(backendCalls)
	})
}

func observeCall(call, outcome string) {
	backendCalls.WithLabelValues(call, outcome).Inc()
}

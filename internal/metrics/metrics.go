package metrics

import (
	"fmt"
	"log"
	"net/http"

	"github.com/TommasoMolesti/faas-scheduler-testbed/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var Enabled bool
var registry = prometheus.NewRegistry()

var (
	invocationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "faas_invocations_total",
		Help: "Number of invocation attempts, by execution mode and outcome.",
	}, []string{"mode", "outcome"})

	invocationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "faas_invocation_duration_seconds",
		Help:    "Wall-clock invocation duration, by execution mode.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"mode"})
)

func Init() {
	if config.GetBool(config.METRICS_ENABLED, false) {
		log.Println("Metrics enabled.")
		Enabled = true
	} else {
		log.Println("Metrics disabled.")
		Enabled = false
		return
	}

	registry.MustRegister(invocationsTotal, invocationDuration)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true})
	http.Handle("/metrics", handler)
	port := config.GetInt(config.METRICS_PORT, 2112)
	http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
}

func observeInvocation(r InvocationRecord) {
	if !Enabled {
		return
	}
	outcome := "failure"
	if r.Success {
		outcome = "success"
	}
	invocationsTotal.WithLabelValues(r.ExecutionMode, outcome).Inc()
	invocationDuration.WithLabelValues(r.ExecutionMode).Observe(r.DurationSeconds)
}

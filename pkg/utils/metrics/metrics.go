package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "edopt"

var (
	registry = prometheus.NewRegistry()

	chatRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_requests_total",
		Help:      "Chat requests by outcome",
	}, []string{"outcome"})

	modelCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "model_calls_total",
		Help:      "Language model invocations by outcome",
	}, []string{"outcome"})

	toolRounds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tool_rounds",
		Help:      "Tool-use rounds per chat request",
		Buckets:   []float64{0, 1, 2, 3, 4, 5},
	})

	toolDispatch = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tool_dispatch_total",
		Help:      "Tool dispatches by tool and outcome",
	}, []string{"tool", "outcome"})

	searchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Latency of semantic searches including query embedding",
		Buckets:   prometheus.DefBuckets,
	})

	indexRecords = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "index_records",
		Help:      "Records loaded in the vector index by content type",
	}, []string{"content_type"})
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeUnknown = "unknown"
	OutcomeInvalid = "invalid"
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		chatRequests,
		modelCalls,
		toolRounds,
		toolDispatch,
		searchDuration,
		indexRecords,
	)
}

// Handler serves the collected metrics in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Registry exposes the collector registry for tests
func Registry() *prometheus.Registry {
	return registry
}

// ChatRequest records the outcome of one orchestration cycle
func ChatRequest(outcome string) {
	chatRequests.WithLabelValues(outcome).Inc()
}

// ModelCall records one model invocation
func ModelCall(outcome string) {
	modelCalls.WithLabelValues(outcome).Inc()
}

// ToolRounds records how many tool-use rounds a chat request took
func ToolRounds(n int) {
	toolRounds.Observe(float64(n))
}

// ToolDispatch records one tool dispatch
func ToolDispatch(tool, outcome string) {
	toolDispatch.WithLabelValues(tool, outcome).Inc()
}

// ObserveSearch records the duration of a search started at start
func ObserveSearch(start time.Time) {
	searchDuration.Observe(time.Since(start).Seconds())
}

// SetIndexRecords replaces the per-type record gauge
func SetIndexRecords(counts map[string]int) {
	indexRecords.Reset()
	for ct, n := range counts {
		indexRecords.WithLabelValues(ct).Set(float64(n))
	}
}

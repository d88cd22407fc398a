package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	WebhookRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total number of webhook deliveries received (count)",
		},
		[]string{"status"},
	)

	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total number of webhook events processed by outcome (count)",
		},
		[]string{"type", "status"},
	)

	WebhookProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_processing_duration_ms",
			Help:    "Processing duration for one webhook delivery in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"status"},
	)

	StoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of message store operations (count)",
		},
		[]string{"operation", "status"},
	)

	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_ms",
			Help:    "Duration of message store operations in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"operation"},
	)

	StoreRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_records",
			Help: "Number of records in the persisted message document (count)",
		},
	)

	ResourceReadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resource_reads_total",
			Help: "Total number of resource read requests (count)",
		},
		[]string{"type", "status"},
	)

	ResourceReadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resource_read_duration_ms",
			Help:    "Duration of resource reads in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"type"},
	)

	LineAPIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "line_api_requests_total",
			Help: "Total number of outbound LINE API requests (count)",
		},
		[]string{"operation", "status"},
	)

	LineAPIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "line_api_request_duration_ms",
			Help:    "Duration of outbound LINE API requests in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"operation"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)
)

func RegisterBridgeMetrics() {
	prometheus.MustRegister(WebhookRequestsTotal)
	prometheus.MustRegister(WebhookEventsTotal)
	prometheus.MustRegister(WebhookProcessingDuration)
	prometheus.MustRegister(StoreOperationsTotal)
	prometheus.MustRegister(StoreOperationDuration)
	prometheus.MustRegister(StoreRecords)
	prometheus.MustRegister(ResourceReadsTotal)
	prometheus.MustRegister(ResourceReadDuration)
	prometheus.MustRegister(LineAPIRequestsTotal)
	prometheus.MustRegister(LineAPIRequestDuration)
	prometheus.MustRegister(RateLimitRequestsTotal)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(CircuitBreakerRequests)
	prometheus.MustRegister(CircuitBreakerFailures)
}

func IncWebhookRequest(status string) {
	WebhookRequestsTotal.WithLabelValues(status).Inc()
}

func IncWebhookEvent(eventType, status string) {
	WebhookEventsTotal.WithLabelValues(eventType, status).Inc()
}

func ObserveWebhookDuration(duration time.Duration, status string) {
	WebhookProcessingDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func IncStoreOperation(operation, status string) {
	StoreOperationsTotal.WithLabelValues(operation, status).Inc()
}

func ObserveStoreOperationDuration(operation string, duration time.Duration) {
	StoreOperationDuration.WithLabelValues(operation).Observe(float64(duration.Milliseconds()))
}

func SetStoreRecords(count int) {
	StoreRecords.Set(float64(count))
}

func IncResourceRead(resourceType, status string) {
	ResourceReadsTotal.WithLabelValues(resourceType, status).Inc()
}

func ObserveResourceReadDuration(resourceType string, duration time.Duration) {
	ResourceReadDuration.WithLabelValues(resourceType).Observe(float64(duration.Milliseconds()))
}

func IncLineAPIRequest(operation, status string) {
	LineAPIRequestsTotal.WithLabelValues(operation, status).Inc()
}

func ObserveLineAPIRequestDuration(operation string, duration time.Duration) {
	LineAPIRequestDuration.WithLabelValues(operation).Observe(float64(duration.Milliseconds()))
}

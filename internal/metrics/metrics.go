package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_attempts_total",
			Help: "Booking attempts by event type and outcome",
		},
		[]string{"event_type", "result"},
	)

	bookingCancellations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_cancellations_total",
			Help: "Bookings moved to CANCELLED",
		},
	)

	assistantRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_requests_total",
			Help: "Assistant chat requests by intent and outcome",
		},
		[]string{"intent", "result"},
	)

	assistantDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_request_duration_seconds",
			Help:    "Time spent waiting on the language model",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method, route pattern and status class",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Outcome labels.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
	ResultFallback = "fallback"
)

func BookingAttempt(eventType, result string) {
	bookingAttempts.WithLabelValues(eventType, result).Inc()
}

func BookingCancelled() {
	bookingCancellations.Inc()
}

func AssistantRequest(intent, result string, elapsed time.Duration) {
	assistantRequests.WithLabelValues(intent, result).Inc()
	assistantDuration.Observe(elapsed.Seconds())
}

// HTTPRequest observes one served request. route is the matched mux pattern so
// path parameters never become label values.
func HTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpDuration.WithLabelValues(method, route, statusClass(status)).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

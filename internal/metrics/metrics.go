// Package metrics holds the prometheus collectors exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Membership submission outcomes.
const (
	MembershipStored      = "stored"
	MembershipInvalid     = "invalid"
	MembershipStoreFailed = "store_failed"
)

// Email send outcomes.
const (
	EmailSent   = "sent"
	EmailFailed = "failed"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "club_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "club_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "club_db_query_duration_seconds",
			Help:    "Database call latency by operation",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"op"},
	)

	MembershipApplications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "club_membership_applications_total",
			Help: "Membership form submissions by outcome",
		},
		[]string{"result"},
	)

	ContactMessages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "club_contact_messages_total",
			Help: "Contact messages received through the public form",
		},
	)

	EmailSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "club_email_sends_total",
			Help: "Outbound emails by kind and outcome",
		},
		[]string{"kind", "result"},
	)
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveQuery records one database call.
func ObserveQuery(op string, elapsed time.Duration) {
	DBQueryDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// CountEmail records one email send attempt.
func CountEmail(kind string, err error) {
	result := EmailSent
	if err != nil {
		result = EmailFailed
	}
	EmailSends.WithLabelValues(kind, result).Inc()
}

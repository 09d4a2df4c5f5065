// Package metrics exposes payment and HTTP counters in Prometheus format.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

const namespace = "marketplace"

// Payment outcome label values.
const (
	OutcomeSuccess     = "success"
	OutcomeNotPayable  = "not_payable"
	OutcomeNotFound    = "not_found"
	OutcomeLockTimeout = "lock_timeout"
	OutcomeInvalid     = "invalid_input"
	OutcomeError       = "error"
)

// Metrics owns a private registry so that several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	paymentAttempts *prometheus.CounterVec
	raceConditions  *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		paymentAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payment_attempts_total",
				Help:      "Total number of payment attempts by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		raceConditions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "race_conditions_total",
				Help:      "Concurrent runs that ended with more than one payment",
			},
			[]string{"strategy"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.paymentAttempts,
		m.raceConditions,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// ObservePayment counts one attempt labelled by the outcome derived from err.
func (m *Metrics) ObservePayment(strategy model.PaymentStrategy, err error) {
	m.paymentAttempts.WithLabelValues(string(strategy), Outcome(err)).Inc()
}

// ObserveRace counts a concurrent run that detected a double payment.
func (m *Metrics) ObserveRace(strategy model.PaymentStrategy) {
	m.raceConditions.WithLabelValues(string(strategy)).Inc()
}

// Middleware records request count and latency labelled by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		m.httpRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in text exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Outcome maps a payment error to its label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domainErrors.ErrOrderNotPayable):
		return OutcomeNotPayable
	case errors.Is(err, domainErrors.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domainErrors.ErrLockTimeout):
		return OutcomeLockTimeout
	case errors.Is(err, domainErrors.ErrInvalidInput):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicer_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invoicer_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	invoicesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invoicer_invoices_created_total",
		Help: "Count of invoices created",
	})

	challengeSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicer_2fa_sends_total",
		Help: "Count of second-factor code deliveries by result",
	}, []string{"result"})
)

// Middleware records a counter and duration histogram per request. Route
// patterns rather than raw paths are used as labels to keep cardinality
// bounded.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		path := c.Route().Path
		httpRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Observe(time.Since(start).Seconds())

		return err
	}
}

// ObserveInvoiceCreated increments the invoice creation counter.
func ObserveInvoiceCreated() {
	invoicesCreated.Inc()
}

// ObserveChallengeSend records a second-factor delivery attempt.
func ObserveChallengeSend(result string) {
	challengeSends.WithLabelValues(result).Inc()
}

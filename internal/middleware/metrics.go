package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinema_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinema_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	paymentOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinema_payment_operations_total",
			Help: "Total number of payment operations",
		},
		[]string{"operation", "status"},
	)
)

// Prometheusメトリクス収集ミドルウェア
func PrometheusMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)

			httpRequestsTotal.WithLabelValues(
				c.Request().Method,
				path,
				status,
			).Inc()

			httpRequestDuration.WithLabelValues(
				c.Request().Method,
				path,
				status,
			).Observe(duration)

			return err
		}
	}
}

// 決済操作のメトリクスを記録する
func RecordPaymentOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	paymentOperations.WithLabelValues(operation, status).Inc()
}

// Package echoprom provides Prometheus metrics for the transcoding service:
// Echo middleware recording request latency and status codes per route, and
// counters for the bytes and errors seen by the codec.
package echoprom

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/presbrey/b64/base64"
)

var (
	// Registry is the Prometheus registry used by this package
	Registry = prometheus.NewRegistry()

	// RequestDuration measures request latency
	RequestDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "b64_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "code"},
	)

	// RequestsTotal counts requests by route and status code
	RequestsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "b64_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"method", "path", "code"},
	)

	// BytesTotal counts codec input bytes by operation and variant
	BytesTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "b64_bytes_total",
			Help: "Total number of input bytes transcoded",
		},
		[]string{"op", "variant"},
	)

	// ErrorsTotal counts codec failures by operation and error kind
	ErrorsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "b64_errors_total",
			Help: "Total number of rejected inputs by error kind",
		},
		[]string{"op", "kind"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Config holds configuration for the middleware
type Config struct {
	// Skipper defines a function to skip middleware
	Skipper func(c echo.Context) bool
}

// DefaultConfig provides default configuration
func DefaultConfig() Config {
	return Config{
		Skipper: func(c echo.Context) bool { return false },
	}
}

// Middleware returns Echo middleware which records Prometheus metrics
func Middleware() echo.MiddlewareFunc {
	return MiddlewareWithConfig(DefaultConfig())
}

// MiddlewareWithConfig returns Echo middleware with config
func MiddlewareWithConfig(config Config) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultConfig().Skipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// Let the error handler pick the status before it is recorded.
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			code := strconv.Itoa(c.Response().Status)

			RequestDuration.WithLabelValues(method, path, code).Observe(time.Since(start).Seconds())
			RequestsTotal.WithLabelValues(method, path, code).Inc()

			return err
		}
	}
}

// Handler serves the contents of Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ObserveCodec records one codec call: n input bytes on success, or the
// kind of err on failure.
func ObserveCodec(op string, variant base64.Variant, n int, err error) {
	if err != nil {
		ErrorsTotal.WithLabelValues(op, base64.Kind(err)).Inc()
		return
	}
	BytesTotal.WithLabelValues(op, variant.String()).Add(float64(n))
}

// Package metrics records HTTP request durations for prometheus.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config of the metrics middleware.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	Next func(c *fiber.Ctx) bool

	// Registerer receives the histogram. Default: prometheus.DefaultRegisterer
	Registerer prometheus.Registerer

	// ServiceName is added as constant label "service".
	ServiceName string
}

// New returns a middleware observing http_request_duration_seconds by method, route and status.
// The route is the registered pattern, e.g. /users/:id, so ids do not explode the label set.
func New(cfg Config) fiber.Handler {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}

	duration := promauto.With(cfg.Registerer).NewHistogramVec(prometheus.HistogramOpts{
		Name:        "http_request_duration_seconds",
		Help:        "Duration of HTTP requests.",
		ConstLabels: prometheus.Labels{"service": cfg.ServiceName},
		Buckets:     prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// the error handler has not run yet
			status = fiber.StatusInternalServerError

			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		route := "unmatched"
		if r := c.Route(); r != nil && status != fiber.StatusNotFound {
			route = r.Path
		}

		duration.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())

		return err
	}
}

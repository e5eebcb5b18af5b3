package logger

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// PrometheusHook counts log statements per level.
type PrometheusHook struct {
	counter *prometheus.CounterVec
}

// Run implements zerolog.Hook.
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if h.counter == nil || level == zerolog.NoLevel || level == zerolog.Disabled {
		return
	}

	h.counter.WithLabelValues(level.String()).Inc()
}

// NewPrometheusHook registers log_statements_total on reg.
// Repeated calls with the same service reuse the collector registered first.
func NewPrometheusHook(reg prometheus.Registerer, service string) (PrometheusHook, error) {
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "log_statements_total",
			Help:        "Number of log statements, differentiated by log level.",
			ConstLabels: prometheus.Labels{"service": service},
		},
		[]string{"level"},
	)

	if err := reg.Register(counter); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return PrometheusHook{}, err //nolint:wrapcheck
		}

		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return PrometheusHook{}, err //nolint:wrapcheck
		}

		counter = existing
	}

	return PrometheusHook{counter: counter}, nil
}

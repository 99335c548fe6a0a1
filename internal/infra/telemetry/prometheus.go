package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"officegw/internal/domain"
)

type PrometheusMetrics struct {
	toolCallDuration *prometheus.HistogramVec
	resolves         *prometheus.CounterVec
	suppressedLogs   *prometheus.CounterVec
	emergencyMode    prometheus.Gauge
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		toolCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "officegw_tool_call_duration_seconds",
				Help:    "Duration of tool invocations in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"module", "method", "status"},
		),
		resolves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "officegw_tool_resolves_total",
				Help: "Total tool name resolutions",
			},
			[]string{"result"},
		),
		suppressedLogs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "officegw_suppressed_logs_total",
				Help: "Error log records dropped by the per-category rate limiter",
			},
			[]string{"category"},
		),
		emergencyMode: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "officegw_emergency_mode",
				Help: "1 while the memory governor has disabled non-error output",
			},
		),
	}
}

func (p *PrometheusMetrics) ObserveToolCall(moduleID, method string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.toolCallDuration.WithLabelValues(moduleID, method, status).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveResolve(found bool) {
	result := "hit"
	if !found {
		result = "miss"
	}
	p.resolves.WithLabelValues(result).Inc()
}

func (p *PrometheusMetrics) AddSuppressed(category string, count int) {
	p.suppressedLogs.WithLabelValues(category).Add(float64(count))
}

func (p *PrometheusMetrics) SetEmergency(active bool) {
	if active {
		p.emergencyMode.Set(1)
	} else {
		p.emergencyMode.Set(0)
	}
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics { return &NoopMetrics{} }

func (n *NoopMetrics) ObserveToolCall(string, string, time.Duration, error) {}

func (n *NoopMetrics) ObserveResolve(bool) {}

func (n *NoopMetrics) AddSuppressed(string, int) {}

func (n *NoopMetrics) SetEmergency(bool) {}

var _ domain.Metrics = (*NoopMetrics)(nil)

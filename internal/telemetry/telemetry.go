// Package telemetry exports the service's Prometheus metrics.
package telemetry

import (
	"net/http"
	"time"

	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/dates"
	"github.com/OFFIS-RIT/letternet/pkg/views"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "letternet"

// Outcome labels for view requests.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics holds the service metrics. A nil *Metrics discards every
// observation.
type Metrics struct {
	registry *prometheus.Registry

	ViewRequests *prometheus.CounterVec
	ViewDuration *prometheus.HistogramVec
	CacheLookups *prometheus.CounterVec
	Reloads      *prometheus.CounterVec

	RecordSetSize prometheus.Gauge
	SkippedDates  prometheus.Gauge
	LoadedAt      prometheus.Gauge
}

// New registers the metrics on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ViewRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_requests_total",
			Help:      "View computations by view and outcome",
		}, []string{"view", "outcome"}),
		ViewDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_duration_seconds",
			Help:      "Time to extract, filter and measure one view",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"view"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result (hit or miss)",
		}, []string{"result"}),
		Reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_reloads_total",
			Help:      "Record set reloads by outcome",
		}, []string{"outcome"}),
		RecordSetSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "record_set_records",
			Help:      "Records in the current record set",
		}),
		SkippedDates: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "record_set_skipped_dates",
			Help:      "Records of the current set without a usable sending date",
		}),
		LoadedAt: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "record_set_loaded_timestamp_seconds",
			Help:      "Unix time the current record set was loaded",
		}),
	}
}

// Handler serves the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveView records one view computation. Invalid requests are counted
// but not timed.
func (m *Metrics) ObserveView(view, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ViewRequests.WithLabelValues(view, outcome).Inc()
	if outcome == OutcomeOK || outcome == OutcomeEmpty {
		m.ViewDuration.WithLabelValues(view).Observe(d.Seconds())
	}
}

// CacheHit counts a cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss counts a cache miss.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

// ObserveReload counts a reload attempt and, on success, updates the record
// set gauges.
func (m *Metrics) ObserveReload(set *common.RecordSet, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Reloads.WithLabelValues(OutcomeError).Inc()
		return
	}
	m.Reloads.WithLabelValues(OutcomeOK).Inc()
	m.RecordSet(set)
}

// RecordSet updates the gauges that describe set.
func (m *Metrics) RecordSet(set *common.RecordSet) {
	if m == nil || set == nil {
		return
	}
	m.RecordSetSize.Set(float64(set.Len()))
	m.SkippedDates.Set(float64(views.BuildTimeline(set.Records(), dates.Normalizer{}).Skipped))
	m.LoadedAt.Set(float64(set.LoadedAt().Unix()))
}

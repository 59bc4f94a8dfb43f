// Package iometrics keeps load metrics in a Prometheus registry and
// writes them in the text format read by the node exporter textfile
// collector.
package iometrics

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/pkg/errcode"
	"github.com/gnames/gnamed/pkg/gnamed"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics of loaded sources.
type Metrics struct {
	reg *prometheus.Registry

	Records  *prometheus.CounterVec
	Rejected *prometheus.CounterVec
	Failed   *prometheus.CounterVec
	Entities *prometheus.CounterVec
	Duration *prometheus.GaugeVec
	Finished *prometheus.GaugeVec
}

var labels = []string{"namespace", "kind", "mode"}

// New creates metrics in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		Records: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gnamed_load_records_total",
			Help: "Records read from source files.",
		}, labels),
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gnamed_load_rejected_total",
			Help: "Invalid records skipped during loads.",
		}, labels),
		Failed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gnamed_load_failed_total",
			Help: "Records rolled back because of storage errors.",
		}, labels),
		Entities: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gnamed_load_entities_total",
			Help: "Resolved records by outcome: created, extended or anchored.",
		}, append(labels, "outcome")),
		Duration: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gnamed_load_duration_seconds",
			Help: "Duration of the last load of a source.",
		}, labels),
		Finished: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gnamed_load_finished_timestamp_seconds",
			Help: "Unix time of the last finished load of a source.",
		}, labels),
	}
}

// Observe adds a load summary.
func (m *Metrics) Observe(sum gnamed.Summary) {
	lv := []string{sum.Source.Namespace, sum.Source.Kind.String(), sum.Mode}
	m.Records.WithLabelValues(lv...).Add(float64(sum.Records))
	m.Rejected.WithLabelValues(lv...).Add(float64(sum.Rejected))
	m.Failed.WithLabelValues(lv...).Add(float64(sum.Failed))

	for outcome, v := range map[string]int64{
		"created":  sum.Created,
		"extended": sum.Extended,
		"anchored": sum.Anchored,
	} {
		m.Entities.WithLabelValues(append(lv, outcome)...).Add(float64(v))
	}

	m.Duration.WithLabelValues(lv...).Set(sum.Duration.Seconds())
	finished := sum.Started.Add(sum.Duration)
	m.Finished.WithLabelValues(lv...).Set(float64(finished.Unix()))
}

// Registry gives access to the registry, e.g. for an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// WriteFile writes all metrics to path atomically.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return MetricsError(path, err)
	}
	return nil
}

// MetricsError creates an error for a metrics file that cannot be
// written.
func MetricsError(path string, err error) error {
	msg := "Cannot write metrics to <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.LoadMetricsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot write metrics %s: %w", path, err),
	}
}

// Package metrics implements the dashboard's metrics sink on Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain/repository.Metrics.
type Recorder struct {
	renders      *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
	datasetRows  *prometheus.GaugeVec
	datasetUp    *prometheus.GaugeVec
	errorsTotal  *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		renders: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "steeldash_page_renders_total",
				Help: "Page renders by page and result",
			},
			[]string{"page", "result"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "steeldash_page_render_duration_seconds",
				Help:    "Time spent building a page display model",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"page"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "steeldash_render_cache_lookups_total",
				Help: "Render cache lookups by page and outcome",
			},
			[]string{"page", "outcome"},
		),
		datasetRows: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "steeldash_dataset_rows",
				Help: "Rows bound to each logical dataset at last load",
			},
			[]string{"dataset"},
		),
		datasetUp: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "steeldash_dataset_present",
				Help: "1 when the dataset file was present at last load",
			},
			[]string{"dataset"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "steeldash_errors_total",
				Help: "Errors by kind",
			},
			[]string{"kind"},
		),
	}
}

func (r *Recorder) RecordPageRender(page, result string) {
	r.renders.WithLabelValues(page, result).Inc()
}

func (r *Recorder) RecordRenderLatency(page string, seconds float64) {
	r.latency.WithLabelValues(page).Observe(seconds)
}

func (r *Recorder) RecordCacheLookup(page string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheLookups.WithLabelValues(page, outcome).Inc()
}

func (r *Recorder) RecordDatasetRows(key string, rows int, present bool) {
	r.datasetRows.WithLabelValues(key).Set(float64(rows))
	up := 0.0
	if present {
		up = 1
	}
	r.datasetUp.WithLabelValues(key).Set(up)
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordPageRender(string, string)     {}
func (Nop) RecordRenderLatency(string, float64) {}
func (Nop) RecordCacheLookup(string, bool)      {}
func (Nop) RecordDatasetRows(string, int, bool) {}
func (Nop) RecordError(string)                  {}

package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes transform and plotting metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	TransformsTotal   *prometheus.CounterVec
	TransformDuration prometheus.Histogram
	PlotsRendered     *prometheus.CounterVec
	LoadedFiles       prometheus.Gauge
	SelectionErrors   *prometheus.CounterVec
}

// NewCollector registers the metrics against reg. A nil reg uses the default registry.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{
		gatherer: gatherer,
		TransformsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatescope_transforms_total",
			Help: "Number of time-domain transforms computed, by kind.",
		}, []string{"kind"}),
		TransformDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatescope_transform_duration_seconds",
			Help:    "Duration of a single transform or gate computation.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		PlotsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatescope_plots_rendered_total",
			Help: "Number of plots rendered and stored, by kind.",
		}, []string{"kind"}),
		LoadedFiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gatescope_loaded_files",
			Help: "Number of measurement files currently loaded.",
		}),
		SelectionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatescope_selection_errors_total",
			Help: "Plot requests rejected during selection resolution, by reason.",
		}, []string{"reason"}),
	}

	for name, col := range map[string]prometheus.Collector{
		"gatescope_transforms_total":           c.TransformsTotal,
		"gatescope_transform_duration_seconds": c.TransformDuration,
		"gatescope_plots_rendered_total":       c.PlotsRendered,
		"gatescope_loaded_files":               c.LoadedFiles,
		"gatescope_selection_errors_total":     c.SelectionErrors,
	} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("register %s: %w", name, err)
		}
	}

	return c, nil
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// ObserveTransform counts one transform of the given kind and records its duration.
func (c *Collector) ObserveTransform(kind string, d time.Duration) {
	if c == nil {
		return
	}
	c.TransformsTotal.WithLabelValues(kind).Inc()
	c.TransformDuration.Observe(d.Seconds())
}

func (c *Collector) IncPlots(kind string) {
	if c == nil {
		return
	}
	c.PlotsRendered.WithLabelValues(kind).Inc()
}

func (c *Collector) SetLoadedFiles(n int) {
	if c == nil {
		return
	}
	c.LoadedFiles.Set(float64(n))
}

func (c *Collector) IncSelectionErrors(reason string) {
	if c == nil {
		return
	}
	c.SelectionErrors.WithLabelValues(reason).Inc()
}

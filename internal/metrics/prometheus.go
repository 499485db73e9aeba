package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LookupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chemlabel_lookup_duration_seconds",
			Help:    "Compound lookup duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	LookupTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chemlabel_lookup_total",
			Help: "Total compound lookups by outcome",
		},
		[]string{"status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chemlabel_upstream_request_duration_seconds",
			Help:    "PubChem request duration in seconds per endpoint",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	ExportTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chemlabel_export_total",
			Help: "Total label exports by format and outcome",
		},
		[]string{"format", "status"},
	)

	PictogramCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chemlabel_pictogram_cache_hits_total",
			Help: "Pictogram image cache hits",
		},
	)

	PictogramCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chemlabel_pictogram_cache_misses_total",
			Help: "Pictogram image cache misses",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chemlabel_active_sessions",
			Help: "Label sessions currently held in memory",
		},
	)
)

func Init() {
	prometheus.MustRegister(LookupDuration)
	prometheus.MustRegister(LookupTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(ExportTotal)
	prometheus.MustRegister(PictogramCacheHits)
	prometheus.MustRegister(PictogramCacheMisses)
	prometheus.MustRegister(ActiveSessions)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

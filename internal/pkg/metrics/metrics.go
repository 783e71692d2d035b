package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geolabel",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geolabel",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Grid metrics
	SnapsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geolabel",
		Subsystem: "grid",
		Name:      "snaps_total",
		Help:      "Total points snapped to the chip grid",
	})

	ChipsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geolabel",
		Subsystem: "grid",
		Name:      "chips_generated_total",
		Help:      "Total chip footprints produced by coverage resolutions",
	})

	CoverageResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geolabel",
		Subsystem: "grid",
		Name:      "coverage_resolutions_total",
		Help:      "Total polygon coverage resolutions by outcome",
	}, []string{"outcome"})

	CoverageDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geolabel",
		Subsystem: "grid",
		Name:      "coverage_duration_seconds",
		Help:      "Duration of polygon coverage resolutions",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	// Labeling metrics
	LabelSaves = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geolabel",
		Subsystem: "labels",
		Name:      "saves_total",
		Help:      "Total replace-all label saves",
	})

	ChipsPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geolabel",
		Subsystem: "labels",
		Name:      "chips_placed_total",
		Help:      "Total chips placed interactively, by chip type",
	}, []string{"type"})

	// Cache metrics
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geolabel",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geolabel",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geolabel",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})
)

// Middleware records request count, latency, and status per route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		httpRequestsTotal.WithLabelValues(c.Method(), path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())

		return err
	}
}

// Handler serves the Prometheus /metrics endpoint on a Fiber app.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

package metrics

import (
	"strconv"
	"strings"
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
		Namespace: "mapboard",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mapboard",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mapboard",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Annotation metrics
	MarkerWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapboard",
		Subsystem: "markers",
		Name:      "writes_total",
		Help:      "Marker writes by operation",
	}, []string{"op"})

	PolygonReplacements = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mapboard",
		Subsystem: "polygons",
		Name:      "replacements_total",
		Help:      "Times the current polygon was replaced",
	})

	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mapboard",
		Subsystem: "uploads",
		Name:      "files_total",
		Help:      "Uploaded image files written to disk",
	})

	UploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mapboard",
		Subsystem: "uploads",
		Name:      "file_size_bytes",
		Help:      "Size of uploaded image files",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapboard",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Map events handed to the broker, by result",
	}, []string{"kind", "result"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapboard",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	// Database pool metrics
	DBConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapboard",
		Subsystem: "db",
		Name:      "conns_open",
		Help:      "Total connections open to the database",
	})

	DBConnsInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapboard",
		Subsystem: "db",
		Name:      "conns_in_use",
		Help:      "Connections currently in use",
	})

	DBConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapboard",
		Subsystem: "db",
		Name:      "conns_idle",
		Help:      "Idle database connections",
	})
)

// normalizePath collapses unmatched paths so a scan of random URLs cannot
// explode label cardinality.
func normalizePath(routePath, rawPath string) string {
	if routePath != "" && routePath != "/" {
		return routePath
	}
	if rawPath == "/" {
		return rawPath
	}
	if strings.HasPrefix(rawPath, "/uploads/") {
		return "/uploads/*"
	}
	return "unmatched"
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := normalizePath(c.Route().Path, c.Path())
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}

// ObserveDBPool records connection pool gauges.
func ObserveDBPool(open, inUse, idle int) {
	DBConnsOpen.Set(float64(open))
	DBConnsInUse.Set(float64(inUse))
	DBConnsIdle.Set(float64(idle))
}

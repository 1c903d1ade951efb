package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infradash_http_requests_total",
			Help: "Total number of HTTP requests by method, route, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "infradash_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "infradash_http_requests_in_flight",
		Help: "Current number of HTTP requests being processed.",
	})
)

// InventoryStats is the subset of the inventory aggregator needed to export
// resource gauges.
type InventoryStats interface {
	MachineCount() int
	GPUEquippedCount() int
	TotalThreads() int
	TotalRAMGB() float64
}

// inventoryCollector exports the aggregator's summary numbers. The
// inventory is immutable, so the values only change across restarts, but
// computing them per scrape keeps the collector honest about its source.
type inventoryCollector struct {
	inv InventoryStats

	machinesDesc    *prometheus.Desc
	gpuMachinesDesc *prometheus.Desc
	threadsDesc     *prometheus.Desc
	ramDesc         *prometheus.Desc
}

// NewInventoryCollector returns a Prometheus collector exporting machine
// count, GPU machine count, total threads, and total RAM for inv.
func NewInventoryCollector(inv InventoryStats) prometheus.Collector {
	return &inventoryCollector{
		inv: inv,
		machinesDesc: prometheus.NewDesc(
			"infradash_machines_total",
			"Number of machines in the inventory.",
			nil, nil,
		),
		gpuMachinesDesc: prometheus.NewDesc(
			"infradash_gpu_machines_total",
			"Number of machines with a dedicated GPU.",
			nil, nil,
		),
		threadsDesc: prometheus.NewDesc(
			"infradash_threads_total",
			"Combined CPU threads across all machines.",
			nil, nil,
		),
		ramDesc: prometheus.NewDesc(
			"infradash_ram_gb_total",
			"Combined RAM in GB across machines with RAM data.",
			nil, nil,
		),
	}
}

func (c *inventoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.machinesDesc
	ch <- c.gpuMachinesDesc
	ch <- c.threadsDesc
	ch <- c.ramDesc
}

func (c *inventoryCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.machinesDesc, prometheus.GaugeValue, float64(c.inv.MachineCount()))
	ch <- prometheus.MustNewConstMetric(c.gpuMachinesDesc, prometheus.GaugeValue, float64(c.inv.GPUEquippedCount()))
	ch <- prometheus.MustNewConstMetric(c.threadsDesc, prometheus.GaugeValue, float64(c.inv.TotalThreads()))
	ch <- prometheus.MustNewConstMetric(c.ramDesc, prometheus.GaugeValue, c.inv.TotalRAMGB())
}

// Register builds a dedicated registry holding all service metrics and
// returns it. A fresh registry avoids colliding with the Go and process
// collectors the default registry already carries. Call once at startup
// after the inventory is built.
func Register(inv InventoryStats) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		// Standard Go runtime and process metrics
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),

		// HTTP service metrics
		httpRequestsTotal,
		httpRequestDuration,
		httpRequestsInFlight,

		// Application metrics
		NewInventoryCollector(inv),
	)
	return reg
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint,
// serving the given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// responseWriter wraps http.ResponseWriter to capture the response status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records HTTP metrics for each request. The path label uses the
// chi route pattern (e.g. "/api/v1/machines/top") rather than the raw URL,
// so its cardinality stays bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			httpRequestsInFlight.Dec()
			pattern := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}
			status := strconv.Itoa(rw.status)
			httpRequestsTotal.WithLabelValues(r.Method, pattern, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		}()

		next.ServeHTTP(rw, r)
	})
}

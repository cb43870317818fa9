package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter cuenta las peticiones HTTP con etiquetas.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration duración de las peticiones en segundos.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// IngestRowsProcessed filas de snapshot leídas por la ingesta.
	IngestRowsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_rows_processed_total",
			Help: "Snapshot rows consumed by the ingestor",
		},
	)

	// IngestEntriesAppended filas nuevas escritas en el libro mayor.
	IngestEntriesAppended = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_ledger_entries_appended_total",
			Help: "Ledger entries appended (changed quantities only)",
		},
	)

	// IngestLoadsFinished cargas terminadas por estado final.
	IngestLoadsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_loads_finished_total",
			Help: "Load events reaching a terminal state",
		},
		[]string{"state"},
	)
)

// Register registra los colectores en el registry por defecto. Llamar una sola
// vez desde main.
func Register() {
	prometheus.MustRegister(
		RequestCounter,
		RequestDuration,
		IngestRowsProcessed,
		IngestEntriesAppended,
		IngestLoadsFinished,
	)
}

// Middleware registra contador y duración por petición. Usa la ruta declarada
// (no la URL real) para mantener baja la cardinalidad.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		RequestCounter.WithLabelValues(labels...).Inc()
		RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone /metrics en formato Prometheus dentro de Fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

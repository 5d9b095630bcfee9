package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry agrupa los collectors propios de la aplicación.
	Registry = prometheus.NewRegistry()

	// HTTPRequests cuenta requests atendidos por método/ruta/status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "centro_adopcion",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de requests HTTP atendidos.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPDuration mide la latencia por método/ruta.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "centro_adopcion",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de los requests HTTP.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		},
		[]string{"method", "path"},
	)

	// TrackingFailures cuenta errores tragados por los endpoints de analítica.
	// Esos endpoints nunca devuelven error al caller; este counter es el
	// sink de observabilidad para detectarlos.
	TrackingFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "centro_adopcion",
			Subsystem: "tracking",
			Name:      "failures_total",
			Help:      "Errores de persistencia en endpoints de tracking (silenciados hacia el caller).",
		},
		[]string{"endpoint"},
	)
)

func init() {
	Registry.MustRegister(HTTPRequests, HTTPDuration, TrackingFailures)
}

// Handler expone el registry en formato Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

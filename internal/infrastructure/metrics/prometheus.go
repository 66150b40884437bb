// Package metrics expõe as métricas Prometheus da API.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maisaeducacao/students-api/internal/domain/ports"
)

// Metrics agrupa os coletores registrados em um registry próprio
type Metrics struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	studentOperations *prometheus.CounterVec
}

// New registra os coletores da aplicação e do runtime Go
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	studentOperations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "student_operations_total",
		Help: "Total number of student mutations by operation",
	}, []string{"operation"})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		studentOperations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		studentOperations: studentOperations,
	}
}

// Handler expõe o endpoint /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest registra duração e contagem de uma requisição
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

var _ ports.StudentEventPublisher = (*Metrics)(nil)

// Publish conta as mutações de alunos pelo tipo do evento
func (m *Metrics) Publish(_ context.Context, event ports.StudentEvent) {
	if m == nil {
		return
	}
	m.studentOperations.WithLabelValues(string(event.Type)).Inc()
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quillmarketing.com/quill-web/internal/head"
	mw "quillmarketing.com/quill-web/internal/middleware"
)

// Metrics owns the collectors exposed on /metrics.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	schemasRendered *prometheus.CounterVec
}

// New registers the web collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quill_web_request_duration_seconds",
				Help:    "Time spent serving HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "status"},
		),
		schemasRendered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_web_structured_data_rendered_total",
				Help: "JSON-LD scripts rendered into page heads, by script id",
			},
			[]string{"schema"},
		),
	}
	reg.MustRegister(
		m.requestDuration,
		m.schemasRendered,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware observes request duration labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := mw.NewResponseRecorder(w)
		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.requestDuration.WithLabelValues(route, strconv.Itoa(rw.Status())).Observe(time.Since(start).Seconds())
	})
}

// SchemasRendered counts the structured data scripts present in a rendered head.
func (m *Metrics) SchemasRendered(ids []head.TagKey) {
	if m == nil {
		return
	}
	for _, id := range ids {
		m.schemasRendered.WithLabelValues(string(id)).Inc()
	}
}

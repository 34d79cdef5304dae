package server

//
// instrumentation.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/db"
	"gitlab.com/kabes/softupkaran/internal/repository"
	"gitlab.com/kabes/softupkaran/internal/server/srvsupport"
	"gitlab.com/kabes/softupkaran/internal/session"
)

const metricsPrefix = "softupkaran_backend_"

// Metrics hold prometheus registry and http request metrics.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeSessions  prometheus.GaugeFunc

	database  repository.Database
	queryTime bool

	once   sync.Once
	regErr error
}

// NewMetricsRegistry create registry with all application collectors registered.
func NewMetricsRegistry(i do.Injector) (*Metrics, error) {
	cfg := do.MustInvoke[*config.ServerConf](i)
	registry := do.MustInvoke[*session.Registry](i)

	m := newMetrics(registry.Count)
	m.database = do.MustInvoke[repository.Database](i)
	m.queryTime = cfg.DebugFlags.HasFlag(config.DebugDBQueryMetrics)

	if err := m.Register(); err != nil {
		return nil, err
	}

	return m, nil
}

func newMetrics(sessionsCount func() int) *Metrics {
	return &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricsPrefix + "requests_total",
				Help: "Total number of HTTP requests.",
			}, []string{"method", "route", "statusCode"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricsPrefix + "request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			}, []string{"method", "route", "statusCode"},
		),
		activeSessions: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricsPrefix + "active_sessions",
				Help: "Number of admin sessions held in memory.",
			}, func() float64 { return float64(sessionsCount()) },
		),
	}
}

// Register add all collectors to the registry. Only first call do the work;
// later calls return the same result.
func (m *Metrics) Register() error {
	m.once.Do(func() {
		m.regErr = m.register()
	})

	return m.regErr
}

func (m *Metrics) register() error {
	prefixed := prometheus.WrapRegistererWithPrefix(metricsPrefix, m.registry)

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := prefixed.Register(c); err != nil {
			return aerr.Wrapf(err, "register runtime collector failed")
		}
	}

	for _, c := range []prometheus.Collector{m.requestsTotal, m.requestDuration, m.activeSessions} {
		if err := m.registry.Register(c); err != nil {
			return aerr.Wrapf(err, "register http collector failed")
		}
	}

	if m.database != nil {
		if err := db.RegisterMetrics(m.registry, m.database, m.queryTime); err != nil {
			return err
		}
	}

	return nil
}

// Handler serve metrics in prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry:           m.registry,
		DisableCompression: true,
	})
}

func (m *Metrics) observe(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.requestsTotal.WithLabelValues(method, route, code).Inc()
	m.requestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

//-------------------------------------------------------------

// newMetricsMiddleware record every request exactly once, after whole handler chain return.
func newMetricsMiddleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			r = srvsupport.WithRouteMatch(r)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				rec := recover()
				if rec != nil {
					status = http.StatusInternalServerError
				}

				m.observe(r.Method, routeLabel(r), status, time.Since(start))

				if rec != nil {
					panic(rec)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// routeLabel return matched route pattern or literal path when no route matched.
// Mount wildcards are recorded before subrouter resolve path, so request that
// ended in NotFound handler is always labelled with its path.
func routeLabel(r *http.Request) string {
	if srvsupport.RouteUnmatched(r) {
		return r.URL.Path
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	return r.URL.Path
}

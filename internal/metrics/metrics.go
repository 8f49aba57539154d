// Package metrics exposes planning-loop counters over Prometheus.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lucasvautier/planrun/internal/logger"
)

// Metrics holds the planner's Prometheus collectors, bound to a private
// registry so tests can create as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	Cycles      *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	ActiveStage *prometheus.GaugeVec
	CycleTime   prometheus.Histogram
}

// New creates and registers the planner collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.Cycles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "planrun",
		Name:      "cycles_total",
		Help:      "Planning cycles by aggregate scenario status.",
	}, []string{"scenario", "status"})

	m.Transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "planrun",
		Name:      "stage_transitions_total",
		Help:      "Stage transitions observed by the planning loop.",
	}, []string{"scenario", "from", "to"})

	m.ActiveStage = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "planrun",
		Name:      "active_stage",
		Help:      "Set to 1 for the stage currently executing, 0 otherwise.",
	}, []string{"scenario", "stage"})

	m.CycleTime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "planrun",
		Name:      "cycle_duration_seconds",
		Help:      "Wall time spent per planning cycle.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
	})

	m.registry.MustRegister(m.Cycles, m.Transitions, m.ActiveStage, m.CycleTime)
	return m
}

// Handler returns the scrape handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs a scrape endpoint on addr until the context is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, log *logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	log.WithFields(map[string]any{"addr": addr}).Info("metrics endpoint listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

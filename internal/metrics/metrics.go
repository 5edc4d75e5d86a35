// Package metrics exposes generation and watcher counters in the Prometheus format.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/temirov/vpdoc/internal/types"
)

const (
	namespace          = "vpdoc"
	labelType          = "type"
	labelOutcome       = "outcome"
	metricsPath        = "/metrics"
	shutdownTimeout    = 5 * time.Second
	readHeaderTimeout  = 5 * time.Second
	errorListenFormat  = "listening on %s: %w"
	OutcomeRegenerated = "regenerated"
	OutcomeReadme      = "readme"
	OutcomeIgnored     = "ignored"
	OutcomeFailed      = "failed"
)

// Metrics holds the collectors of one run on a private registry.
type Metrics struct {
	registry          *prometheus.Registry
	filesGenerated    *prometheus.CounterVec
	watchEvents       *prometheus.CounterVec
	traversalDuration prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	collectors := &Metrics{
		registry: registry,
		filesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_generated_total",
			Help:      "Generated pages by statistic type",
		}, []string{labelType}),
		watchEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watch_events_total",
			Help:      "Handled file change events by outcome",
		}, []string{labelOutcome}),
		traversalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "traversal_duration_seconds",
			Help:      "Duration of source tree traversals",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	registry.MustRegister(collectors.filesGenerated, collectors.watchEvents, collectors.traversalDuration)
	return collectors
}

// Registry returns the registry backing the collectors.
func (collectors *Metrics) Registry() *prometheus.Registry {
	return collectors.registry
}

// FileGenerated counts one page with the given statistic type.
func (collectors *Metrics) FileGenerated(statisticType types.StatisticType) {
	if collectors == nil {
		return
	}
	collectors.filesGenerated.WithLabelValues(string(statisticType)).Inc()
}

// WatchEvent counts one handled change event.
func (collectors *Metrics) WatchEvent(outcome string) {
	if collectors == nil {
		return
	}
	collectors.watchEvents.WithLabelValues(outcome).Inc()
}

// ObserveTraversal records the duration of one traversal.
func (collectors *Metrics) ObserveTraversal(duration time.Duration) {
	if collectors == nil {
		return
	}
	collectors.traversalDuration.Observe(duration.Seconds())
}

// Handler serves the registry in the exposition format.
func (collectors *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(collectors.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// Router mounts the metrics handler on /metrics.
func (collectors *Metrics) Router() *mux.Router {
	router := mux.NewRouter()
	router.Handle(metricsPath, collectors.Handler()).Methods(http.MethodGet)
	return router
}

// Serve listens on address and serves the router until ctx is cancelled. The listener is
// bound before Serve returns so the returned address is usable immediately.
func (collectors *Metrics) Serve(ctx context.Context, address string, errorHandler func(error)) (net.Addr, error) {
	listener, listenError := net.Listen("tcp", address)
	if listenError != nil {
		return nil, fmt.Errorf(errorListenFormat, address, listenError)
	}
	server := &http.Server{Handler: collectors.Router(), ReadHeaderTimeout: readHeaderTimeout}
	go func() {
		if serveError := server.Serve(listener); serveError != nil && !errors.Is(serveError, http.ErrServerClosed) && errorHandler != nil {
			errorHandler(serveError)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownContext, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownContext)
	}()
	return listener.Addr(), nil
}

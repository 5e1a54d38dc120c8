// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package observability exposes Prometheus metrics for account events.
package observability

import (
	"context"
	"net/http"

	"codeberg.org/oliverandrich/go-accounts/internal/services/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the account counters.
type Metrics struct {
	EventsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the account metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_events_total",
				Help: "Total number of completed account operations by event",
			},
			[]string{"event"},
		),
	}

	reg.MustRegister(m.EventsTotal)

	// Expose zero values before the first event
	for _, name := range []string{auth.EventRegistered, auth.EventConfirmed, auth.EventCodeResent, auth.EventLoggedIn} {
		m.EventsTotal.WithLabelValues(name)
	}

	return m
}

// Observe counts an account event. It satisfies auth.Observer.
func (m *Metrics) Observe(_ context.Context, event auth.Event) {
	m.EventsTotal.WithLabelValues(event.Name).Inc()
}

// NewRegistry returns a registry with Go runtime, process and account metrics.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry, NewMetrics(registry)
}

// Handler serves the registry in the Prometheus text format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

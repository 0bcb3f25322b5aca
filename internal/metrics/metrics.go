// Package metrics exports search counters for prometheus.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vancomm/vacuum-planner/internal/planner"
)

const (
	OutcomeSolved     = "solved"
	OutcomeNoSolution = "no_solution"
	OutcomeLimit      = "limit"
	OutcomeCancelled  = "cancelled"
	OutcomeCached     = "cached"
)

type Search struct {
	registry *prometheus.Registry
	searches *prometheus.CounterVec
	expanded *prometheus.HistogramVec
	duration *prometheus.HistogramVec
}

func New() *Search {
	m := &Search{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_searches_total",
				Help: "Total number of plan requests by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		expanded: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "planner_nodes_expanded",
				Help:    "States expanded per search",
				Buckets: prometheus.ExponentialBuckets(1, 4, 12),
			},
			[]string{"strategy"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "planner_search_duration_seconds",
				Help: "Wall time spent per search",
			},
			[]string{"strategy"},
		),
	}
	m.registry.MustRegister(m.searches, m.expanded, m.duration)
	return m
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSolved
	case errors.Is(err, planner.ErrNoSolution):
		return OutcomeNoSolution
	case errors.Is(err, planner.ErrExpansionLimit):
		return OutcomeLimit
	default:
		return OutcomeCancelled
	}
}

// Observe records a finished search. Nil receivers are ignored so callers
// can run without metrics.
func (m *Search) Observe(res planner.Result, err error) {
	if m == nil {
		return
	}
	strategy := res.Strategy.String()
	m.searches.WithLabelValues(strategy, Outcome(err)).Inc()
	m.expanded.WithLabelValues(strategy).Observe(float64(res.Expanded))
	m.duration.WithLabelValues(strategy).Observe(res.Duration.Seconds())
}

func (m *Search) ObserveCached(s planner.Strategy) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(s.String(), OutcomeCached).Inc()
}

func (m *Search) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Search) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Package metrics counts account operations by outcome and exposes them in
// Prometheus format.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "accountkeeper"

// Recorder is safe for concurrent use. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry
	ops      *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Account operations by name and outcome.",
		}, []string{"op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Account operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	r.registry.MustRegister(r.ops, r.latency)
	return r
}

// Observe records one finished operation.
func (r *Recorder) Observe(op string, start time.Time, err error) {
	if r == nil {
		return
	}
	r.ops.WithLabelValues(op, Outcome(err)).Inc()
	r.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Count returns the current counter value, for tests and debugging.
func (r *Recorder) Count(op, outcome string) float64 {
	if r == nil {
		return 0
	}
	families, err := r.registry.Gather()
	if err != nil {
		return 0
	}
	for _, mf := range families {
		if mf.GetName() != namespace+"_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["op"] == op && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Outcome maps an error to its label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrValidation):
		return "validation"
	case errors.Is(err, common.ErrConflict):
		return "conflict"
	case errors.Is(err, common.ErrUnauthenticated):
		return "unauthenticated"
	default:
		return "infrastructure"
	}
}

// Package promhooks counts hook events with Prometheus. Keys are reduced to
// their scope name so label cardinality stays bounded.
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	appstate "github.com/0xLeif/AppState-sub000"
	pr "github.com/0xLeif/AppState-sub000/provider"
)

// Hooks holds all appstate counters.
type Hooks struct {
	Misses            *prometheus.CounterVec
	DurableFailures   *prometheus.CounterVec
	EncodeFailures    *prometheus.CounterVec
	WriteBacksSkipped *prometheus.CounterVec
	OverridesRestored *prometheus.CounterVec
}

var _ appstate.Hooks = (*Hooks)(nil)

// New registers the counters on reg; nil => prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) *Hooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "appstate"
	}
	f := promauto.With(reg)
	return &Hooks{
		Misses: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Reads resolved outside the cache, by source",
			},
			[]string{"scope", "source"},
		),
		DurableFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "durable_failures_total",
				Help:      "Failed durable store calls",
			},
			[]string{"scope", "op"},
		),
		EncodeFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "encode_failures_total",
				Help:      "Values that could not be encoded or decoded",
			},
			[]string{"scope"},
		),
		WriteBacksSkipped: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "write_back_skipped_total",
				Help:      "Deferred write-backs that did not land",
			},
			[]string{"scope", "reason"},
		),
		OverridesRestored: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "overrides_restored_total",
				Help:      "Dependency overrides cancelled",
			},
			[]string{"scope"},
		),
	}
}

func scope(key string) string {
	name, _ := pr.SplitKey(key)
	if name == "" {
		return "_"
	}
	return name
}

func (h *Hooks) CacheMiss(key, source string) {
	h.Misses.WithLabelValues(scope(key), source).Inc()
}

func (h *Hooks) DurableFailure(key, op string, _ error) {
	h.DurableFailures.WithLabelValues(scope(key), op).Inc()
}

func (h *Hooks) EncodeFailure(key string, _ error) {
	h.EncodeFailures.WithLabelValues(scope(key)).Inc()
}

func (h *Hooks) WriteBackSkipped(key, reason string) {
	h.WriteBacksSkipped.WithLabelValues(scope(key), reason).Inc()
}

func (h *Hooks) OverrideRestored(key string) {
	h.OverridesRestored.WithLabelValues(scope(key)).Inc()
}

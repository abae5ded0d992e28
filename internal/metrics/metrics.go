// Package metrics provides Prometheus instrumentation for entity graph stores.
//
// Metrics include:
//   - Operation counters (by operation, merge strategy and result)
//   - Managed entity gauges (per store)
//   - Surrogate creations during merges
//   - Reference values stripped by cascading removal
//
// All metric operations are safe for concurrent use via Prometheus's
// internal locking. A nil *StoreMetrics is valid and records nothing, so
// stores built without metrics pay no cost.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "entitygraph"
	storeSubsystem   = "store"
)

// Result label values.
const (
	ResultOK = "ok"
)

// StoreMetrics holds the Prometheus collectors for store operations.
// Create once per process via NewStoreMetrics and share across stores.
type StoreMetrics struct {
	// Operations counts store operations.
	// Labels: op (new_entity, merge, remove), strategy (identity, reference,
	// value), result (ok or a lower-cased error code)
	Operations *prometheus.CounterVec

	// Entities tracks the number of managed entities.
	// Labels: store (store UUID)
	Entities *prometheus.GaugeVec

	// Surrogates counts managed entities created as a side effect of merges.
	// Labels: strategy
	Surrogates *prometheus.CounterVec

	// CascadeRemovals counts reference values stripped from surviving
	// entities when an entity is removed.
	CascadeRemovals prometheus.Counter
}

// NewStoreMetrics creates the collectors and registers them with reg.
// Tests should pass prometheus.NewRegistry() to stay isolated from the
// global registry.
func NewStoreMetrics(reg prometheus.Registerer) (*StoreMetrics, error) {
	m := &StoreMetrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: storeSubsystem,
				Name:      "operations_total",
				Help:      "Total number of store operations by operation, strategy and result",
			},
			[]string{"op", "strategy", "result"},
		),
		Entities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: storeSubsystem,
				Name:      "entities",
				Help:      "Current number of managed entities per store",
			},
			[]string{"store"},
		),
		Surrogates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: storeSubsystem,
				Name:      "surrogates_total",
				Help:      "Managed entities created while merging entity graphs",
			},
			[]string{"strategy"},
		),
		CascadeRemovals: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: storeSubsystem,
				Name:      "cascade_edges_removed_total",
				Help:      "Reference values stripped from surviving entities by cascading removal",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.Operations, m.Entities, m.Surrogates, m.CascadeRemovals} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register store metrics: %w", err)
		}
	}
	return m, nil
}

// ObserveOperation counts one store operation.
func (m *StoreMetrics) ObserveOperation(op, strategy, result string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, strategy, result).Inc()
}

// SetEntities records the current managed entity count of a store.
func (m *StoreMetrics) SetEntities(store string, n int) {
	if m == nil {
		return
	}
	m.Entities.WithLabelValues(store).Set(float64(n))
}

// AddSurrogates counts entities created by a merge.
func (m *StoreMetrics) AddSurrogates(strategy string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Surrogates.WithLabelValues(strategy).Add(float64(n))
}

// AddCascadeRemovals counts reference values stripped by a removal.
func (m *StoreMetrics) AddCascadeRemovals(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CascadeRemovals.Add(float64(n))
}

// Forget drops the per-store gauge, e.g. when a store is discarded.
func (m *StoreMetrics) Forget(store string) {
	if m == nil {
		return
	}
	m.Entities.DeleteLabelValues(store)
}

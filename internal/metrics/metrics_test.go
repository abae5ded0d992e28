package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *StoreMetrics {
	t.Helper()
	m, err := NewStoreMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return m
}

func TestNewStoreMetrics_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewStoreMetrics(reg)
	require.NoError(t, err)

	_, err = NewStoreMetrics(reg)
	assert.Error(t, err)
}

func TestObserveOperation(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveOperation("merge", "value", ResultOK)
	m.ObserveOperation("merge", "value", ResultOK)
	m.ObserveOperation("new_entity", "value", "duplicate_identity")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("merge", "value", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("new_entity", "value", "duplicate_identity")))
}

func TestEntitiesGauge(t *testing.T) {
	m := newTestMetrics(t)

	m.SetEntities("s1", 3)
	m.SetEntities("s1", 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Entities.WithLabelValues("s1")))

	m.Forget("s1")
	assert.Equal(t, 0, testutil.CollectAndCount(m.Entities))
}

func TestCounters_IgnoreNonPositive(t *testing.T) {
	m := newTestMetrics(t)

	m.AddSurrogates("value", 0)
	m.AddSurrogates("value", 4)
	m.AddCascadeRemovals(-1)
	m.AddCascadeRemovals(2)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.Surrogates.WithLabelValues("value")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CascadeRemovals))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *StoreMetrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("merge", "value", ResultOK)
		m.SetEntities("s", 1)
		m.AddSurrogates("value", 1)
		m.AddCascadeRemovals(1)
		m.Forget("s")
	})
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics().(*metrics)

	m.ObserveCacheLookup("search", "hit")
	m.ObserveCacheLookup("search", "hit")
	m.ObserveCacheLookup("search", "miss")
	m.ObserveProviderRequest("brave", "ok")
	m.AddExcludedResults(3)
	m.AddExcludedResults(0)
	m.ObserveRequestDuration("search", 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookupsTotal.WithLabelValues("search", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookupsTotal.WithLabelValues("search", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerRequestsTotal.WithLabelValues("brave", "ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.excludedResultsTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))

	families, err := m.GetRegistry().Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilAndNoop(t *testing.T) {
	var m *metrics
	assert.NotPanics(t, func() {
		m.ObserveCacheLookup("search", "hit")
		m.AddExcludedResults(1)
	})

	var n Metrics = Noop{}
	assert.NotPanics(t, func() {
		n.ObserveProviderRequest("google", "error")
		n.ObserveRequestDuration("suggest", 1)
	})
	assert.NotNil(t, n.GetRegistry())
}

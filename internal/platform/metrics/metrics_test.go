package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.IncrementRows("physical")
	m.IncrementRows("physical")
	m.IncrementEmitted("Person")
	m.RecordCountryLookup(true)
	m.RecordCountryLookup(false)
	m.RecordCountryLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsProcessed.WithLabelValues("physical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EntitiesEmitted.WithLabelValues("Person")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CountryLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CountryLookups.WithLabelValues("miss")))
}

func TestMetrics_ObserveRun(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	finished := time.Unix(1_700_000_000, 0)

	m.ObserveRun(time.Second, nil, finished)
	m.ObserveRun(time.Second, errors.New("boom"), finished.Add(time.Hour))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunFailures))
	assert.Equal(t, float64(finished.Unix()), testutil.ToFloat64(m.LastRunSuccess))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementRows("legal")
		m.IncrementEmitted("Organization")
		m.RecordCountryLookup(true)
		m.ObserveFetch("legal", time.Second)
		m.IncrementFetchRetry("timeout")
		m.RecordCacheLookup(false)
		m.ObserveRun(time.Second, nil, time.Now())
	})
}

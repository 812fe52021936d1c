package service

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"nsdc/internal/crawler/country"
	"nsdc/internal/platform/metrics"
	putil "nsdc/pkg/testutil"
)

func TestCountingLookup(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	logger, logs := putil.CaptureLogger()
	lookup := &countingLookup{next: country.New(), metrics: m, logger: logger}

	code, ok := lookup.Lookup("Росія")
	assert.True(t, ok)
	assert.Equal(t, "RU", code)

	_, ok = lookup.Lookup("Atlantis")
	assert.False(t, ok)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CountryLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CountryLookups.WithLabelValues("miss")))
	assert.Contains(t, logs.String(), "Country not resolved")
	assert.Contains(t, logs.String(), "text=Atlantis")
}

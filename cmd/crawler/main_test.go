package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsdc/internal/crawler/models"
	"nsdc/internal/crawler/store"
	"nsdc/internal/platform/config"
	"nsdc/internal/platform/metrics"
	"nsdc/pkg/testutil"
)

func TestBuildResources_NamesRelativeToDatasetDir(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg := config.Config{
		DataPath: t.TempDir(),
		Fetch: config.FetchConfig{
			Timeout:    5 * time.Second,
			Retries:    1,
			Backoff:    time.Millisecond,
			MaxBackoff: time.Millisecond,
			UserAgent:  config.DefaultUserAgent,
		},
	}
	dataset := models.NSDCDataset()
	registry := store.NewMemoryResources()
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	fetcher, exporter := buildResources(cfg, dataset, registry, nil, m, testutil.DiscardLogger())

	ctx := context.Background()
	path, err := fetcher.FetchResource(ctx, "physical.json", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.DataPath, dataset.Name, "physical.json"), path)

	res, err := exporter.ExportResource(ctx, path, models.MimeJSON, models.SourceTitle)
	require.NoError(t, err)
	assert.Equal(t, "physical.json", res.Name)
	assert.Equal(t, dataset.Name, res.Dataset)
}

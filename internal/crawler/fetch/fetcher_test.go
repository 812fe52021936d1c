package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsdc/pkg/platform/sentinel"
)

// scriptedServer answers with the given statuses in order, then 200 with body.
func scriptedServer(t *testing.T, body string, statuses ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		if n <= len(statuses) {
			w.WriteHeader(statuses[n-1])
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestFetcher(t *testing.T, opts ...Option) *Fetcher {
	t.Helper()
	base := []Option{WithRetry(3, time.Millisecond, 2*time.Millisecond)}
	return New(filepath.Join(t.TempDir(), "ua_nsdc_sanctions"), append(base, opts...)...)
}

func TestFetchResource_WritesBody(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[{"ukaz_id": 1}]`))
	}))
	defer srv.Close()

	f := newTestFetcher(t, WithUserAgent("nsdc-test"))
	path, err := f.FetchResource(context.Background(), "physical.json", srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "physical.json", filepath.Base(path))
	assert.Equal(t, "ua_nsdc_sanctions", filepath.Base(filepath.Dir(path)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"ukaz_id": 1}]`, string(data))
	assert.Equal(t, "nsdc-test", gotUA)
}

func TestFetchResource_NameCannotEscapeDataPath(t *testing.T) {
	srv, _ := scriptedServer(t, `[]`)
	f := newTestFetcher(t)

	path, err := f.FetchResource(context.Background(), "../../legal.json", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, f.ResourcePath("legal.json"), path)
}

func TestFetchResource_Retries(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantCalls int32
		wantErr   Category
	}{
		{"recovers from outage", []int{http.StatusServiceUnavailable}, 2, ""},
		{"recovers from rate limiting", []int{http.StatusTooManyRequests, http.StatusBadGateway}, 3, ""},
		{"gives up after the last attempt", []int{500, 500, 500}, 3, CategoryOutage},
		{"does not retry not found", []int{http.StatusNotFound}, 1, CategoryNotFound},
		{"does not retry forbidden", []int{http.StatusForbidden}, 1, CategoryForbidden},
		{"does not retry other client errors", []int{http.StatusTeapot}, 1, CategoryBadResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := scriptedServer(t, `[]`, tt.statuses...)
			f := newTestFetcher(t)

			_, err := f.FetchResource(context.Background(), "legal.json", srv.URL)
			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, CategoryOf(err))
		})
	}
}

func TestFetchResource_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	f := newTestFetcher(t,
		WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}),
		WithRetry(2, time.Millisecond, time.Millisecond),
	)
	_, err := f.FetchResource(context.Background(), "physical.json", srv.URL)
	require.Error(t, err)
	assert.Equal(t, CategoryTimeout, CategoryOf(err))
	assert.True(t, IsRetryable(err))
}

func TestFetchResource_CancelledDuringBackoff(t *testing.T) {
	srv, calls := scriptedServer(t, `[]`, 500, 500, 500)
	f := newTestFetcher(t, WithRetry(3, time.Minute, time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for calls.Load() == 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	_, err := f.FetchResource(ctx, "physical.json", srv.URL)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchResource_Cache(t *testing.T) {
	srv, calls := scriptedServer(t, `[{"index": 1}]`)
	cache := NewMemoryCache()

	t.Run("a fresh body is served from the cache", func(t *testing.T) {
		f := newTestFetcher(t, WithCache(cache, time.Hour))
		for range 2 {
			path, err := f.FetchResource(context.Background(), "physical.json", srv.URL)
			require.NoError(t, err)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.JSONEq(t, `[{"index": 1}]`, string(data))
		}
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("a zero TTL bypasses the cache", func(t *testing.T) {
		calls.Store(0)
		f := newTestFetcher(t, WithCache(cache, 0))
		_, err := f.FetchResource(context.Background(), "physical.json", srv.URL)
		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	var attempts, retries int
	err := retry(context.Background(), 5, time.Millisecond, time.Millisecond,
		func(err error) bool { return !errors.Is(err, permanent) },
		func(int, error) { retries++ },
		func() error {
			attempts++
			if attempts < 2 {
				return NewError(CategoryTimeout, "u", "slow", nil)
			}
			return permanent
		},
	)
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, retries)
}

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Hour))
	body, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), body)

	now = now.Add(time.Hour)
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestError_Message(t *testing.T) {
	err := NewError(CategoryOutage, "https://example.test/feed", "status 502", nil)
	assert.Equal(t, "fetch https://example.test/feed [outage]: status 502", err.Error())
	assert.True(t, err.Retryable)
	assert.Equal(t, CategoryInternal, CategoryOf(errors.New("plain")))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestFetchResource_OversizedBody(t *testing.T) {
	t.Run("over the limit is a bad response", func(t *testing.T) {
		srv, calls := scriptedServer(t, `[{"ukaz_id": 1}]`)
		f := newTestFetcher(t)
		f.maxBody = 8

		path, err := f.FetchResource(context.Background(), "physical.json", srv.URL)
		require.Error(t, err)
		assert.Empty(t, path)
		assert.Equal(t, CategoryBadResponse, CategoryOf(err))
		assert.False(t, IsRetryable(err))
		assert.Contains(t, err.Error(), "exceeds 8 bytes")
		assert.Equal(t, int32(1), calls.Load())

		_, statErr := os.Stat(f.ResourcePath("physical.json"))
		assert.True(t, os.IsNotExist(statErr), "a truncated body is never written")
	})

	t.Run("exactly at the limit is accepted", func(t *testing.T) {
		srv, _ := scriptedServer(t, `[1, 2]`)
		f := newTestFetcher(t)
		f.maxBody = int64(len(`[1, 2]`))

		_, err := f.FetchResource(context.Background(), "physical.json", srv.URL)
		require.NoError(t, err)
	})
}

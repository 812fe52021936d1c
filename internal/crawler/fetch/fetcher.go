// Package fetch downloads source documents into the dataset's data
// directory, with retries and an optional body cache.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"nsdc/internal/platform/metrics"
	"nsdc/pkg/platform/sentinel"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultAttempts   = 3
	defaultBackoff    = 500 * time.Millisecond
	defaultMaxBackoff = 5 * time.Second

	// maxBodySize bounds a single feed download.
	maxBodySize = 256 << 20
)

// Fetcher implements ports.Fetcher over HTTP.
type Fetcher struct {
	client     *http.Client
	dataPath   string
	userAgent  string
	attempts   int
	backoff    time.Duration
	maxBackoff time.Duration
	cache      Cache
	cacheTTL   time.Duration
	maxBody    int64
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(*Fetcher)

func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRetry sets the number of attempts and the backoff bounds.
func WithRetry(attempts int, backoff, maxBackoff time.Duration) Option {
	return func(f *Fetcher) {
		f.attempts = attempts
		f.backoff = backoff
		f.maxBackoff = maxBackoff
	}
}

// WithCache serves bodies from cache when they are younger than ttl. A zero
// ttl leaves caching off.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = cache
		f.cacheTTL = ttl
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// New creates a Fetcher writing into dataPath, the dataset's own directory.
func New(dataPath string, opts ...Option) *Fetcher {
	f := &Fetcher{
		dataPath:   dataPath,
		attempts:   defaultAttempts,
		backoff:    defaultBackoff,
		maxBackoff: defaultMaxBackoff,
		maxBody:    maxBodySize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = NewHTTPClient(defaultTimeout)
	}
	return f
}

// NewHTTPClient returns a client with dial and handshake limits below the
// overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// ResourcePath is where a resource called name is stored.
func (f *Fetcher) ResourcePath(name string) string {
	return filepath.Join(f.dataPath, filepath.Base(name))
}

// FetchResource downloads url and stores the body under name, returning the
// file path.
func (f *Fetcher) FetchResource(ctx context.Context, name, url string) (string, error) {
	start := time.Now()
	body, err := f.body(ctx, url)
	f.metrics.ObserveFetch(name, time.Since(start))
	if err != nil {
		return "", err
	}

	path := f.ResourcePath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", NewError(CategoryInternal, url, "create data directory", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", NewError(CategoryInternal, url, "write resource", err)
	}
	f.logger.DebugContext(ctx, "Fetched resource",
		slog.String("name", name),
		slog.String("path", path),
		slog.Int("size", len(body)),
	)
	return path, nil
}

func (f *Fetcher) body(ctx context.Context, url string) ([]byte, error) {
	if body, ok := f.cached(ctx, url); ok {
		return body, nil
	}

	var body []byte
	err := retry(ctx, f.attempts, f.backoff, f.maxBackoff, IsRetryable,
		func(attempt int, err error) {
			f.metrics.IncrementFetchRetry(string(CategoryOf(err)))
			f.logger.WarnContext(ctx, "Retrying fetch",
				slog.String("url", url),
				slog.Int("attempt", attempt+1),
				slog.String("error", err.Error()),
			)
		},
		func() error {
			var err error
			body, err = f.get(ctx, url)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	if f.cacheEnabled() {
		if err := f.cache.Set(ctx, url, body, f.cacheTTL); err != nil {
			f.logger.WarnContext(ctx, "HTTP cache write failed", slog.String("url", url), slog.String("error", err.Error()))
		}
	}
	return body, nil
}

func (f *Fetcher) cacheEnabled() bool {
	return f.cache != nil && f.cacheTTL > 0
}

func (f *Fetcher) cached(ctx context.Context, url string) ([]byte, bool) {
	if !f.cacheEnabled() {
		return nil, false
	}
	body, err := f.cache.Get(ctx, url)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			f.logger.WarnContext(ctx, "HTTP cache read failed", slog.String("url", url), slog.String("error", err.Error()))
		}
		f.metrics.RecordCacheLookup(false)
		return nil, false
	}
	f.metrics.RecordCacheLookup(true)
	f.logger.DebugContext(ctx, "HTTP cache hit", slog.String("url", url))
	return body, true
}

// get performs one GET and classifies any failure.
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewError(CategoryInternal, url, "build request", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	f.logger.DebugContext(ctx, "HTTP GET", slog.String("url", url))
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransport(ctx, url, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(url, resp.StatusCode); err != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, classifyTransport(ctx, url, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, NewError(CategoryBadResponse, url,
			fmt.Sprintf("response body exceeds %d bytes", f.maxBody), nil)
	}
	return body, nil
}

func classifyTransport(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return NewError(CategoryInternal, url, "request cancelled", ctxErr)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewError(CategoryTimeout, url, "request timed out", err)
	}
	return NewError(CategoryOutage, url, "request failed", err)
}

func checkStatus(url string, status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests:
		return NewError(CategoryRateLimited, url, http.StatusText(status), nil)
	case status >= 500:
		return NewError(CategoryOutage, url, fmt.Sprintf("status %d", status), nil)
	case status == http.StatusNotFound:
		return NewError(CategoryNotFound, url, http.StatusText(status), nil)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewError(CategoryForbidden, url, http.StatusText(status), nil)
	default:
		return NewError(CategoryBadResponse, url, fmt.Sprintf("status %d", status), nil)
	}
}

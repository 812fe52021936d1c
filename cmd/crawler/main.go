package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"nsdc/internal/crawler/country"
	"nsdc/internal/crawler/export"
	"nsdc/internal/crawler/fetch"
	"nsdc/internal/crawler/models"
	"nsdc/internal/crawler/ports"
	"nsdc/internal/crawler/runner"
	"nsdc/internal/crawler/service"
	"nsdc/internal/crawler/store"
	"nsdc/internal/platform/config"
	"nsdc/internal/platform/httpserver"
	"nsdc/internal/platform/kafka"
	"nsdc/internal/platform/logger"
	"nsdc/internal/platform/metrics"
	"nsdc/internal/platform/postgres"
	"nsdc/internal/platform/redis"
	httptransport "nsdc/internal/transport/http"
	"nsdc/pkg/platform/slug"
)

const shutdownTimeout = 10 * time.Second

// infra holds the optional backing services; nil fields are not configured.
type infra struct {
	db    *sql.DB
	redis *redis.Client
	kafka *kgo.Client
}

func (i *infra) close() {
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

func (i *infra) checks() map[string]httptransport.Check {
	checks := map[string]httptransport.Check{}
	if i.db != nil {
		checks["postgres"] = i.db.PingContext
	}
	if i.redis != nil {
		checks["redis"] = i.redis.Health
	}
	if i.kafka != nil {
		checks["kafka"] = i.kafka.Ping
	}
	return checks
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("crawler exited with error", "error", err)
		stop()
		os.Exit(1)
	}
}

// run wires dependencies, serves the ops router and blocks until the crawl
// finishes (single run) or ctx is cancelled (interval mode).
func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	m := metrics.New()

	deps, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close()

	dataset := models.NSDCDataset()
	dataset.Name = cfg.Dataset

	entities, resources := buildStores(deps, cfg, dataset, log)

	var cache fetch.Cache
	if deps.redis != nil {
		cache = fetch.NewRedisCache(deps.redis.Client)
	}
	fetcher, exporter := buildResources(cfg, dataset, resources, cache, m, log)

	svc, err := service.New(
		dataset,
		service.Feeds{PersonsURL: cfg.PersonsURL, LegalURL: cfg.LegalURL},
		fetcher,
		exporter,
		entities,
		slug.New(dataset.Prefix),
		country.New(),
		service.WithLogger(log),
		service.WithMetrics(m),
	)
	if err != nil {
		return fmt.Errorf("build crawl service: %w", err)
	}

	r := runner.New(svc, runner.WithLogger(log), runner.WithInterval(cfg.Interval))

	handler := httptransport.NewHandler(r, deps.checks(), log)
	srv := httpserver.New(cfg.HTTP.Addr, httptransport.NewRouter(handler, nil))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return httpserver.Serve(gctx, srv, shutdownTimeout, log)
	})
	g.Go(func() error {
		// A single run ends the process once it finishes.
		defer cancel()
		return r.Run(gctx)
	})
	return g.Wait()
}

// buildResources wires the fetcher and exporter to one dataset directory,
// <data_path>/<dataset>, so resource names are relative to it. A nil cache
// falls back to memory when caching is enabled.
func buildResources(cfg config.Config, dataset models.Dataset, registry export.Registry, cache fetch.Cache, m *metrics.Metrics, log *slog.Logger) (*fetch.Fetcher, *export.Exporter) {
	opts := []fetch.Option{
		fetch.WithHTTPClient(fetch.NewHTTPClient(cfg.Fetch.Timeout)),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithRetry(cfg.Fetch.Retries, cfg.Fetch.Backoff, cfg.Fetch.MaxBackoff),
		fetch.WithLogger(log),
		fetch.WithMetrics(m),
	}
	if cfg.Fetch.CacheTTL > 0 {
		if cache == nil {
			cache = fetch.NewMemoryCache()
		}
		opts = append(opts, fetch.WithCache(cache, cfg.Fetch.CacheTTL))
	}
	root := filepath.Join(cfg.DataPath, dataset.Name)
	return fetch.New(root, opts...), export.New(root, dataset.Name, registry, export.WithLogger(log))
}

func connect(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	deps := &infra{}
	var err error

	if deps.db, err = postgres.Open(ctx, cfg.Postgres); err != nil {
		return nil, err
	}
	if deps.db != nil {
		if err := store.Migrate(ctx, deps.db); err != nil {
			deps.close()
			return nil, err
		}
		log.Info("connected to postgres")
	}

	if deps.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		deps.close()
		return nil, err
	}
	if deps.redis != nil {
		log.Info("connected to redis")
	}

	if deps.kafka, err = kafka.New(ctx, cfg.Kafka); err != nil {
		deps.close()
		return nil, err
	}
	if deps.kafka != nil {
		log.Info("connected to kafka", "topic", cfg.Kafka.Topic)
	}
	return deps, nil
}

// buildStores picks Postgres when configured and falls back to memory. A
// configured Kafka topic receives every emitted entity as well.
func buildStores(deps *infra, cfg config.Config, dataset models.Dataset, log *slog.Logger) (ports.EntityStore, export.Registry) {
	var (
		primary   ports.EntityStore = store.NewMemoryStore()
		resources export.Registry   = store.NewMemoryResources()
	)
	if deps.db != nil {
		primary = store.NewPostgresStore(deps.db, dataset.Name, store.WithPostgresLogger(log))
		resources = store.NewPostgresResources(deps.db)
	}
	if deps.kafka == nil {
		return primary, resources
	}
	return store.NewMulti(primary, store.NewKafkaPublisher(deps.kafka, cfg.Kafka.Topic, dataset.Name)), resources
}

// Package service runs a crawl of the NSDC sanctions list: it fetches both
// feeds, normalizes every row and hands the results to the entity store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"nsdc/internal/crawler/models"
	"nsdc/internal/crawler/normalize"
	"nsdc/internal/crawler/ports"
	"nsdc/internal/platform/metrics"
)

const tracerName = "nsdc/internal/crawler/service"

// Feeds are the source URLs of one crawl.
type Feeds struct {
	PersonsURL string
	LegalURL   string
}

// RunResult summarizes a crawl run.
type RunResult struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Duration  time.Duration
	// Rows counts the rows normalized per feed.
	Rows      map[string]int
	Emitted   int
	Entities  int
	Targets   int
	Resources []*models.Resource
}

// Service orchestrates a crawl run.
type Service struct {
	dataset    models.Dataset
	feeds      Feeds
	fetcher    ports.Fetcher
	exporter   ports.ResourceExporter
	store      ports.EntityStore
	normalizer *normalize.Normalizer
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	clock      func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a Service. Every collaborator is required.
func New(
	dataset models.Dataset,
	feeds Feeds,
	fetcher ports.Fetcher,
	exporter ports.ResourceExporter,
	store ports.EntityStore,
	ids ports.Slugger,
	countries ports.CountryLookup,
	opts ...Option,
) (*Service, error) {
	switch {
	case dataset.Name == "":
		return nil, errors.New("dataset name is required")
	case feeds.PersonsURL == "" || feeds.LegalURL == "":
		return nil, errors.New("both feed URLs are required")
	case fetcher == nil:
		return nil, errors.New("fetcher is required")
	case exporter == nil:
		return nil, errors.New("resource exporter is required")
	case store == nil:
		return nil, errors.New("entity store is required")
	case ids == nil:
		return nil, errors.New("slugger is required")
	case countries == nil:
		return nil, errors.New("country lookup is required")
	}

	s := &Service{
		dataset:  dataset,
		feeds:    feeds,
		fetcher:  fetcher,
		exporter: exporter,
		store:    store,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.normalizer = normalize.New(dataset, ids, &countingLookup{next: countries, metrics: s.metrics, logger: s.logger})
	return s, nil
}

// feed describes how one source document is crawled.
type feed struct {
	name      string
	resource  string
	url       string
	fields    []string
	normalize func(models.Row) (*models.Record, error)
}

func (s *Service) feedList() []feed {
	return []feed{
		{
			name:      models.FeedPhysical,
			resource:  "physical.json",
			url:       s.feeds.PersonsURL,
			fields:    normalize.PersonFields,
			normalize: s.normalizer.Person,
		},
		{
			name:      models.FeedLegal,
			resource:  "legal.json",
			url:       s.feeds.LegalURL,
			fields:    normalize.OrganizationFields,
			normalize: s.normalizer.Organization,
		},
	}
}

// Crawl runs the persons feed to completion, then the legal entities feed.
// The first fetch, decode, row or store error aborts the run; the store is
// flushed only when both feeds succeed.
func (s *Service) Crawl(ctx context.Context) (RunResult, error) {
	result := RunResult{
		RunID:     uuid.New(),
		StartedAt: s.clock(),
		Rows:      make(map[string]int),
	}
	log := s.logger.With(
		slog.String("dataset", s.dataset.Name),
		slog.String("run_id", result.RunID.String()),
	)

	ctx, span := s.tracer.Start(ctx, "crawler.Crawl", trace.WithAttributes(
		attribute.String("dataset", s.dataset.Name),
		attribute.String("run_id", result.RunID.String()),
	))
	defer span.End()

	err := s.run(ctx, log, &result)
	result.Duration = s.clock().Sub(result.StartedAt)
	s.metrics.ObserveRun(result.Duration, err, result.StartedAt.Add(result.Duration))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorContext(ctx, "Crawl failed", slog.String("error", err.Error()))
		return result, err
	}
	span.SetAttributes(
		attribute.Int("entities", result.Entities),
		attribute.Int("targets", result.Targets),
	)
	return result, nil
}

func (s *Service) run(ctx context.Context, log *slog.Logger, result *RunResult) error {
	if err := s.exporter.ClearResources(ctx); err != nil {
		return err
	}
	if rs, ok := s.store.(ports.RunScoped); ok {
		if err := rs.BeginRun(ctx, result.StartedAt); err != nil {
			return fmt.Errorf("begin run: %w", err)
		}
	}
	log.InfoContext(ctx, "Begin crawl")

	for _, f := range s.feedList() {
		if err := s.crawlFeed(ctx, log, f, result); err != nil {
			return err
		}
	}

	if err := s.store.Flush(ctx); err != nil {
		return fmt.Errorf("flush store: %w", err)
	}
	if rs, ok := s.store.(ports.RunScoped); ok {
		if err := rs.CleanupRun(ctx); err != nil {
			return fmt.Errorf("cleanup run: %w", err)
		}
	}
	if counter, ok := s.store.(ports.EntityCounter); ok {
		entities, targets, err := counter.CountEntities(ctx)
		if err != nil {
			return fmt.Errorf("count entities: %w", err)
		}
		result.Entities, result.Targets = entities, targets
	}

	log.InfoContext(ctx, "Crawl completed",
		slog.Int("entities", result.Entities),
		slog.Int("targets", result.Targets),
		slog.Int("emitted", result.Emitted),
	)
	return nil
}

func (s *Service) crawlFeed(ctx context.Context, log *slog.Logger, f feed, result *RunResult) error {
	ctx, span := s.tracer.Start(ctx, "crawler.Feed", trace.WithAttributes(
		attribute.String("feed", f.name),
	))
	defer span.End()

	rows, res, err := s.load(ctx, f)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	result.Resources = append(result.Resources, res)
	log.InfoContext(ctx, "Fetched feed",
		slog.String("feed", f.name),
		slog.String("checksum", res.Checksum),
		slog.Int("rows", len(rows)),
	)

	unused := make(map[string]struct{})
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := f.normalize(row)
		if err != nil {
			var inputErr *models.InputError
			if errors.As(err, &inputErr) {
				inputErr.Feed = f.name
				inputErr.Row = i
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		emitted, err := s.emit(ctx, rec)
		result.Emitted += emitted
		if err != nil {
			return err
		}
		for _, key := range normalize.Unconsumed(row.Keys(), f.fields) {
			unused[key] = struct{}{}
		}
		result.Rows[f.name]++
		s.metrics.IncrementRows(f.name)
	}
	if len(unused) > 0 {
		log.DebugContext(ctx, "Unused fields",
			slog.String("feed", f.name),
			slog.Any("fields", slices.Sorted(maps.Keys(unused))),
		)
	}
	span.SetAttributes(attribute.Int("rows", len(rows)))
	return nil
}

// load fetches and registers the feed document, then decodes its rows.
func (s *Service) load(ctx context.Context, f feed) ([]models.Row, *models.Resource, error) {
	path, err := s.fetcher.FetchResource(ctx, f.resource, f.url)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s feed: %w", f.name, err)
	}
	res, err := s.exporter.ExportResource(ctx, path, models.MimeJSON, models.SourceTitle)
	if err != nil {
		return nil, nil, fmt.Errorf("export %s feed: %w", f.name, err)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s feed: %w", f.name, err)
	}
	defer fh.Close()

	rows, err := models.DecodeRows(fh)
	if err != nil {
		return nil, nil, fmt.Errorf("%s feed: %w", f.name, err)
	}
	return rows, res, nil
}

// emit hands over a record in dependency order: addresses, the sanction,
// then the entity that references them. It returns how many entities the
// store accepted.
func (s *Service) emit(ctx context.Context, rec *models.Record) (int, error) {
	var supporting []*models.Entity
	for _, addr := range rec.Addresses {
		supporting = append(supporting, addr.Entity())
	}
	if rec.Sanction != nil {
		supporting = append(supporting, rec.Sanction.Entity())
	}

	emitted := 0
	for _, e := range supporting {
		if err := s.emitEntity(ctx, e, models.EmitOptions{}); err != nil {
			return emitted, err
		}
		emitted++
	}
	if err := s.emitEntity(ctx, rec.Entity, rec.Options); err != nil {
		return emitted, err
	}
	return emitted + 1, nil
}

func (s *Service) emitEntity(ctx context.Context, e *models.Entity, opts models.EmitOptions) error {
	if err := s.store.Emit(ctx, e, opts); err != nil {
		return fmt.Errorf("emit %s: %w", e, err)
	}
	s.metrics.IncrementEmitted(string(e.Schema))
	return nil
}

package es

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/entity-search/internal/apperr"
	"github.com/DjordjeVuckovic/entity-search/internal/dto"
	"github.com/DjordjeVuckovic/entity-search/internal/metrics"
	"github.com/DjordjeVuckovic/entity-search/internal/storage"
	"github.com/DjordjeVuckovic/entity-search/internal/types/filter"
	"github.com/DjordjeVuckovic/entity-search/internal/types/query"
	"github.com/DjordjeVuckovic/entity-search/internal/types/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("entity-search/es")

// Searcher answers entity searches against one index.
type Searcher struct {
	backend      Backend
	registry     *schema.Registry
	entities     []schema.EntitySpec
	byName       map[string]schema.EntitySpec
	cfg          SearchConfig
	queryBuilder QueryBuilder
	supportsPIT  bool
	keepAlive    time.Duration
	now          func() time.Time
}

var _ storage.EntitySearcher = (*Searcher)(nil)

type SearcherOption func(*Searcher)

func WithQueryBuilder(qb QueryBuilder) SearcherOption {
	return func(s *Searcher) { s.queryBuilder = qb }
}

func WithRegistry(reg *schema.Registry) SearcherOption {
	return func(s *Searcher) { s.registry = reg }
}

func WithClock(now func() time.Time) SearcherOption {
	return func(s *Searcher) { s.now = now }
}

// NewSearcher connects to Elasticsearch and serves searches over entities.
func NewSearcher(config ClientConfig, search SearchConfig, entities []schema.EntitySpec, opts ...SearcherOption) (*Searcher, error) {
	executor, err := NewExecutor(config)
	if err != nil {
		return nil, err
	}
	return NewSearcherWithBackend(executor, config, search, entities, opts...)
}

// NewSearcherWithBackend is NewSearcher over an existing backend.
func NewSearcherWithBackend(backend Backend, config ClientConfig, search SearchConfig, entities []schema.EntitySpec, opts ...SearcherOption) (*Searcher, error) {
	if len(entities) == 0 {
		return nil, fmt.Errorf("at least one entity type is required")
	}

	byName := make(map[string]schema.EntitySpec, len(entities))
	for _, e := range entities {
		if _, dup := byName[e.Name]; dup {
			return nil, fmt.Errorf("entity type %q declared twice", e.Name)
		}
		byName[e.Name] = e
	}

	keepAlive := config.KeepAlive
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}

	s := &Searcher{
		backend:      backend,
		registry:     schema.Default,
		entities:     entities,
		byName:       byName,
		cfg:          search,
		queryBuilder: DefaultQueryBuilder{},
		supportsPIT:  config.SupportsPointInTime,
		keepAlive:    keepAlive,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Fail at startup on conflicting display names.
	if _, err := s.handler(nil); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Searcher) Search(ctx context.Context, q storage.SearchQuery, from, size int) (*dto.SearchResult, error) {
	ctx, span := tracer.Start(ctx, "Search", trace.WithAttributes(
		attribute.String("input", q.Input),
		attribute.Int("from", from),
		attribute.Int("size", size),
	))
	defer span.End()

	h, err := s.handler(q.Entities)
	if err != nil {
		return nil, spanError(span, err, "failed to resolve schema")
	}

	req := h.BuildRequest(q.Input, q.Filter, q.Sort, from, size, q.Flags)
	resp, err := s.execute(ctx, "search", req)
	if err != nil {
		return nil, spanError(span, err, "search failed")
	}

	result, err := h.ExtractResult(resp, q.Filter, from, size)
	if err != nil {
		return nil, spanError(span, err, "failed to extract result")
	}

	slog.Info("Es entity search results fetched",
		"input", q.Input,
		"total_matches", result.NumEntities,
		"returned_count", len(result.Entities),
		"facets", len(result.Metadata.Aggregations))
	metrics.SearchHitsReturned.WithLabelValues("search").Observe(float64(len(result.Entities)))
	span.SetAttributes(attribute.Int64("total", result.NumEntities))

	return result, nil
}

func (s *Searcher) Scroll(ctx context.Context, q storage.SearchQuery, scrollID string, keepAlive time.Duration, size int) (*dto.ScrollResult, error) {
	ctx, span := tracer.Start(ctx, "Scroll", trace.WithAttributes(
		attribute.String("input", q.Input),
		attribute.Bool("has_cursor", scrollID != ""),
		attribute.Int("size", size),
	))
	defer span.End()

	h, err := s.handler(q.Entities)
	if err != nil {
		return nil, spanError(span, err, "failed to resolve schema")
	}

	keepAlive = s.resolveKeepAlive(keepAlive)
	cursor, opened, err := s.cursor(ctx, scrollID, keepAlive)
	if err != nil {
		return nil, spanError(span, err, "invalid cursor")
	}

	req := h.BuildScrollRequest(q.Input, q.Filter, q.Sort, cursor, keepAlive, size, q.Flags)
	resp, err := s.execute(ctx, "scroll", req)
	if err != nil {
		s.releaseOpened(ctx, opened, cursor)
		return nil, spanError(span, err, "scroll failed")
	}

	result, err := h.ExtractScrollResult(resp, q.Filter, keepAlive, size, s.supportsPIT, s.now())
	if err != nil {
		s.releaseOpened(ctx, opened, cursor)
		return nil, spanError(span, err, "failed to extract result")
	}

	s.finishScroll(ctx, "scroll", result, resp.PitID)
	return result, nil
}

func (s *Searcher) Filter(ctx context.Context, entities []string, f *filter.Filter, sort *query.SortCriterion, from, size int) (*dto.SearchResult, error) {
	ctx, span := tracer.Start(ctx, "Filter", trace.WithAttributes(
		attribute.Int("from", from),
		attribute.Int("size", size),
	))
	defer span.End()

	h, err := s.handler(entities)
	if err != nil {
		return nil, spanError(span, err, "failed to resolve schema")
	}

	req := h.BuildFilterRequest(f, sort, from, size)
	resp, err := s.execute(ctx, "filter", req)
	if err != nil {
		return nil, spanError(span, err, "filter failed")
	}

	result, err := h.ExtractResult(resp, f, from, size)
	if err != nil {
		return nil, spanError(span, err, "failed to extract result")
	}

	metrics.SearchHitsReturned.WithLabelValues("filter").Observe(float64(len(result.Entities)))
	return result, nil
}

func (s *Searcher) ScrollFilter(ctx context.Context, entities []string, f *filter.Filter, sort *query.SortCriterion, scrollID string, keepAlive time.Duration, size int) (*dto.ScrollResult, error) {
	ctx, span := tracer.Start(ctx, "ScrollFilter", trace.WithAttributes(
		attribute.Bool("has_cursor", scrollID != ""),
		attribute.Int("size", size),
	))
	defer span.End()

	h, err := s.handler(entities)
	if err != nil {
		return nil, spanError(span, err, "failed to resolve schema")
	}

	keepAlive = s.resolveKeepAlive(keepAlive)
	cursor, opened, err := s.cursor(ctx, scrollID, keepAlive)
	if err != nil {
		return nil, spanError(span, err, "invalid cursor")
	}

	req := h.BuildFilterScrollRequest(f, sort, cursor, keepAlive, size)
	resp, err := s.execute(ctx, "scroll_filter", req)
	if err != nil {
		s.releaseOpened(ctx, opened, cursor)
		return nil, spanError(span, err, "filter scroll failed")
	}

	result, err := h.ExtractScrollResult(resp, f, keepAlive, size, s.supportsPIT, s.now())
	if err != nil {
		s.releaseOpened(ctx, opened, cursor)
		return nil, spanError(span, err, "failed to extract result")
	}

	s.finishScroll(ctx, "scroll_filter", result, resp.PitID)
	return result, nil
}

func (s *Searcher) Aggregate(ctx context.Context, entities []string, field string, f *filter.Filter, limit int) (map[string]int64, error) {
	ctx, span := tracer.Start(ctx, "Aggregate", trace.WithAttributes(
		attribute.String("field", field),
		attribute.Int("limit", limit),
	))
	defer span.End()

	h, err := s.handler(entities)
	if err != nil {
		return nil, spanError(span, err, "failed to resolve schema")
	}

	req := h.BuildAggregationRequest(field, f, limit)
	resp, err := s.execute(ctx, "aggregate", req)
	if err != nil {
		return nil, spanError(span, err, "aggregation failed")
	}

	return ExtractTermAggregations(resp, facetName(field)), nil
}

// handler resolves the request handler for the named entity types.
// nil names means every entity type.
func (s *Searcher) handler(names []string) (*RequestHandler, error) {
	specs := s.entities
	if len(names) > 0 {
		specs = make([]schema.EntitySpec, 0, len(names))
		for _, name := range names {
			spec, ok := s.byName[name]
			if !ok {
				return nil, apperr.NewValidation(fmt.Sprintf("unknown entity type %q", name))
			}
			specs = append(specs, spec)
		}
	}
	return RequestHandlerFor(s.registry, specs, s.cfg, s.queryBuilder)
}

// cursor decodes scrollID. For a first page on a backend with point in time
// support it opens a new point in time instead and reports opened.
func (s *Searcher) cursor(ctx context.Context, scrollID string, keepAlive time.Duration) (cursor *dto.ScrollCursor, opened bool, err error) {
	cursor, err = dto.ParseCursor(scrollID, s.now())
	if err != nil {
		reason := "invalid"
		if errors.Is(err, apperr.ErrExpiredCursor) {
			reason = "expired"
		}
		metrics.CursorRejectedTotal.WithLabelValues(reason).Inc()
		return nil, false, err
	}
	if cursor != nil || !s.supportsPIT {
		return cursor, false, nil
	}

	pitID, err := s.backend.OpenPointInTime(ctx, keepAlive)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open point in time: %w", err)
	}
	metrics.PointInTimeOpenedTotal.Inc()

	return &dto.ScrollCursor{PitID: pitID}, true, nil
}

// releaseOpened closes the point in time a failed call opened.
func (s *Searcher) releaseOpened(ctx context.Context, opened bool, cursor *dto.ScrollCursor) {
	if !opened || cursor == nil || cursor.PitID == "" {
		return
	}
	if err := s.backend.ClosePointInTime(context.WithoutCancel(ctx), cursor.PitID); err != nil {
		slog.Warn("Failed to close point in time after failed scroll", "error", err)
	}
}

// finishScroll releases the point in time once the last page was served.
func (s *Searcher) finishScroll(ctx context.Context, operation string, result *dto.ScrollResult, pitID string) {
	metrics.SearchHitsReturned.WithLabelValues(operation).Observe(float64(len(result.Entities)))
	if result.HasMore() || pitID == "" || !s.supportsPIT {
		return
	}
	if err := s.backend.ClosePointInTime(ctx, pitID); err != nil {
		slog.Warn("Failed to close point in time", "error", err)
	}
}

func (s *Searcher) execute(ctx context.Context, operation string, req *Request) (*Response, error) {
	start := time.Now()
	resp, err := s.backend.Search(ctx, req)
	metrics.ObserveSearch(operation, time.Since(start).Seconds(), err)
	if err != nil {
		slog.Error("Elasticsearch query failed", "operation", operation, "error", err)
		return nil, fmt.Errorf("failed to execute %s: %w", operation, err)
	}
	return resp, nil
}

func (s *Searcher) resolveKeepAlive(keepAlive time.Duration) time.Duration {
	if keepAlive > 0 {
		return keepAlive
	}
	return s.keepAlive
}

func spanError(span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}

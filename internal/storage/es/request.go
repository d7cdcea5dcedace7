package es

import (
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/entity-search/internal/dto"
	"github.com/DjordjeVuckovic/entity-search/internal/types/filter"
	"github.com/DjordjeVuckovic/entity-search/internal/types/query"
	"github.com/DjordjeVuckovic/entity-search/internal/types/schema"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

const DefaultMaxTermBucketSize = 20

// SearchConfig holds the request-shaping settings shared by every call.
type SearchConfig struct {
	// MaxTermBucketSize caps the buckets returned per facet.
	MaxTermBucketSize int
	// Defaults fill unset search flags.
	Defaults query.SearchFlags
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxTermBucketSize: DefaultMaxTermBucketSize,
		Defaults:          query.DefaultFlags,
	}
}

// Request is a fully built search call.
// Body is never mutated after construction.
type Request struct {
	Body         *search.Request
	RequestCache bool
	// PointInTime is set when Body reads from a point in time, in which case
	// the index must not be addressed.
	PointInTime bool
}

// RequestHandler builds search requests for one resolved entity schema.
type RequestHandler struct {
	schema       *schema.Schema
	cfg          SearchConfig
	queryBuilder QueryBuilder
}

func NewRequestHandler(s *schema.Schema, cfg SearchConfig, qb QueryBuilder) *RequestHandler {
	if qb == nil {
		qb = DefaultQueryBuilder{}
	}
	if cfg.MaxTermBucketSize <= 0 {
		cfg.MaxTermBucketSize = DefaultMaxTermBucketSize
	}
	return &RequestHandler{
		schema:       s,
		cfg:          cfg,
		queryBuilder: qb,
	}
}

// RequestHandlerFor resolves the schema of specs through reg, so the schema is
// computed once per distinct ordered entity list.
func RequestHandlerFor(reg *schema.Registry, specs []schema.EntitySpec, cfg SearchConfig, qb QueryBuilder) (*RequestHandler, error) {
	s, err := reg.Resolve(specs)
	if err != nil {
		return nil, err
	}
	return NewRequestHandler(s, cfg, qb), nil
}

func (h *RequestHandler) Schema() *schema.Schema { return h.schema }

// BuildRequest builds an offset-paginated search. size may be 0 for an
// aggregation-only call.
func (h *RequestHandler) BuildRequest(input string, f *filter.Filter, sort *query.SortCriterion, from, size int, flags *query.SearchFlags) *Request {
	resolved := query.ApplyDefaultFlags(flags, input, h.cfg.Defaults)

	body := h.searchBody(input, f, sort, size, resolved)
	body.From = &from

	return &Request{
		Body:         body,
		RequestCache: !resolved.SkipCache,
	}
}

// BuildScrollRequest builds a cursor-paginated search continuing after cursor.
// A nil cursor, or one without sort values, reads the first page.
func (h *RequestHandler) BuildScrollRequest(input string, f *filter.Filter, sort *query.SortCriterion, cursor *dto.ScrollCursor, keepAlive time.Duration, size int, flags *query.SearchFlags) *Request {
	resolved := query.ApplyDefaultFlags(flags, input, h.cfg.Defaults)

	body := h.searchBody(input, f, sort, size, resolved)
	pit := applyCursor(body, cursor, keepAlive)

	return &Request{
		Body:         body,
		RequestCache: !resolved.SkipCache,
		PointInTime:  pit,
	}
}

// BuildFilterRequest builds an offset-paginated request with no text query,
// aggregations or highlights.
func (h *RequestHandler) BuildFilterRequest(f *filter.Filter, sort *query.SortCriterion, from, size int) *Request {
	body := h.filterBody(f, sort, size)
	body.From = &from

	return &Request{Body: body, RequestCache: true}
}

// BuildFilterScrollRequest is the cursor-paginated form of BuildFilterRequest.
func (h *RequestHandler) BuildFilterScrollRequest(f *filter.Filter, sort *query.SortCriterion, cursor *dto.ScrollCursor, keepAlive time.Duration, size int) *Request {
	body := h.filterBody(f, sort, size)
	pit := applyCursor(body, cursor, keepAlive)

	return &Request{Body: body, RequestCache: true, PointInTime: pit}
}

// BuildAggregationRequest counts documents per value of field under f.
// No hits are returned. limit <= 0 falls back to the configured bucket cap.
func (h *RequestHandler) BuildAggregationRequest(field string, f *filter.Filter, limit int) *Request {
	if limit <= 0 {
		limit = h.cfg.MaxTermBucketSize
	}
	size := 0
	facet := facetName(field)
	filterQuery := BuildFilterQuery(f)

	return &Request{
		Body: &search.Request{
			Query: &filterQuery,
			Size:  &size,
			Aggregations: map[string]types.Aggregations{
				facet: termsAggregation(facet, limit),
			},
		},
		RequestCache: true,
	}
}

func (h *RequestHandler) searchBody(input string, f *filter.Filter, sort *query.SortCriterion, size int, flags query.Flags) *search.Request {
	textQuery := h.queryBuilder.BuildQuery(h.schema, input, flags.Fulltext)
	body := h.baseBody(&textQuery, f, sort, size)

	if !flags.SkipAggregates {
		body.Aggregations = h.aggregations(flags.MaxAggValues)
	}
	if !flags.SkipHighlighting {
		body.Highlight = h.highlight()
		body.Fields = h.matchedQueryFields()
	}
	return body
}

func (h *RequestHandler) filterBody(f *filter.Filter, sort *query.SortCriterion, size int) *search.Request {
	return h.baseBody(nil, f, sort, size)
}

func (h *RequestHandler) baseBody(textQuery *types.Query, f *filter.Filter, sort *query.SortCriterion, size int) *search.Request {
	must := make([]types.Query, 0, 2)
	if textQuery != nil {
		must = append(must, *textQuery)
	}
	must = append(must, BuildFilterQuery(f))

	return &search.Request{
		Query:          &types.Query{Bool: &types.BoolQuery{Must: must}},
		Size:           &size,
		Sort:           buildSort(sort),
		Source_:        types.SourceFilter{Includes: []string{schema.UrnField}},
		TrackTotalHits: true,
	}
}

func (h *RequestHandler) aggregations(maxValues int) map[string]types.Aggregations {
	size := maxValues
	if size <= 0 || size > h.cfg.MaxTermBucketSize {
		size = h.cfg.MaxTermBucketSize
	}

	aggs := make(map[string]types.Aggregations, len(h.schema.FacetFields()))
	for _, facet := range h.schema.FacetFields() {
		if facet == schema.UrnField {
			continue
		}
		aggs[facet] = termsAggregation(facet, size)
	}
	return aggs
}

func (h *RequestHandler) highlight() *types.Highlight {
	fields := make(map[string]types.HighlightField, len(h.schema.HighlightFields()))
	for _, f := range h.schema.HighlightFields() {
		fields[f] = types.HighlightField{}
	}
	return &types.Highlight{
		Fields:   fields,
		PreTags:  []string{""},
		PostTags: []string{""},
	}
}

// matchedQueryFields asks for the stored values of default fields so that a
// hit matched by an exact clause can report the value it matched on.
func (h *RequestHandler) matchedQueryFields() []types.FieldAndFormat {
	fields := make([]types.FieldAndFormat, 0, len(h.schema.DefaultQueryFields()))
	for _, f := range h.schema.DefaultQueryFields() {
		fields = append(fields, types.FieldAndFormat{Field: f})
	}
	return fields
}

func termsAggregation(facet string, size int) types.Aggregations {
	field := filter.ToKeywordField(facet)
	return types.Aggregations{
		Terms: &types.TermsAggregation{
			Field: &field,
			Size:  &size,
		},
	}
}

// applyCursor positions body after cursor and pins it to the cursor's point
// in time. It reports whether a point in time was attached.
func applyCursor(body *search.Request, cursor *dto.ScrollCursor, keepAlive time.Duration) bool {
	if cursor == nil {
		return false
	}
	if len(cursor.Sort) > 0 {
		after := make([]types.FieldValue, 0, len(cursor.Sort))
		for _, v := range cursor.Sort {
			after = append(after, v)
		}
		body.SearchAfter = after
	}
	if cursor.PitID == "" {
		return false
	}
	body.Pit = &types.PointInTimeReference{
		Id:        cursor.PitID,
		KeepAlive: FormatKeepAlive(keepAlive),
	}
	return true
}

func facetName(field string) string {
	if facet, ok := filter.ToFacetField(field); ok {
		return facet
	}
	return field
}

// FormatKeepAlive renders d in the backend's time unit syntax, e.g. 5m or 90s.
func FormatKeepAlive(d time.Duration) string {
	switch {
	case d <= 0:
		return "1m"
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	case d%time.Second == 0:
		return fmt.Sprintf("%ds", d/time.Second)
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

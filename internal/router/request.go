package router

import (
	"encoding/json"
	"strings"

	"github.com/DjordjeVuckovic/entity-search/internal/apperr"
	"github.com/DjordjeVuckovic/entity-search/internal/storage"
	"github.com/DjordjeVuckovic/entity-search/internal/types/filter"
	"github.com/DjordjeVuckovic/entity-search/internal/types/query"
	"github.com/DjordjeVuckovic/entity-search/pkg/pagination"
)

// SortRequest orders results by a document field.
type SortRequest struct {
	Field string `json:"field" example:"name"`
	Order string `json:"order,omitempty" example:"asc"`
}

func (s *SortRequest) toCriterion() (*query.SortCriterion, error) {
	if s == nil || strings.TrimSpace(s.Field) == "" {
		return nil, nil
	}
	order, err := query.ParseSortOrder(s.Order)
	if err != nil {
		return nil, apperr.NewValidationWrap("invalid sort", err)
	}
	return &query.SortCriterion{Field: s.Field, Order: order}, nil
}

// SearchRequest is the body of POST /entities/search.
type SearchRequest struct {
	Entities []string           `json:"entities" example:"dataset,chart"`
	Input    string             `json:"input" example:"revenue"`
	Filter   *filter.Filter     `json:"filter,omitempty"`
	Sort     *SortRequest       `json:"sort,omitempty"`
	Flags    *query.SearchFlags `json:"flags,omitempty"`
	pagination.OffsetRequest
}

// ScrollRequest is the body of POST /entities/scroll.
type ScrollRequest struct {
	Entities []string           `json:"entities" example:"dataset"`
	Input    string             `json:"input" example:"revenue"`
	Filter   *filter.Filter     `json:"filter,omitempty"`
	Sort     *SortRequest       `json:"sort,omitempty"`
	Flags    *query.SearchFlags `json:"flags,omitempty"`
	pagination.CursorRequest
}

// FilterRequest is the body of POST /entities/filter. A scrollId or keepAlive
// switches it to cursor paging.
type FilterRequest struct {
	Entities  []string       `json:"entities" example:"dataset"`
	Filter    *filter.Filter `json:"filter,omitempty"`
	Sort      *SortRequest   `json:"sort,omitempty"`
	From      int            `json:"from"`
	Size      *int           `json:"size,omitempty"`
	ScrollID  *string        `json:"scrollId,omitempty"`
	KeepAlive string         `json:"keepAlive,omitempty"`
}

func (r *FilterRequest) isScroll() bool {
	return r.ScrollID != nil || r.KeepAlive != ""
}

func (r *SearchRequest) toQuery() (storage.SearchQuery, error) {
	if err := r.OffsetRequest.Validate(); err != nil {
		return storage.SearchQuery{}, apperr.NewValidationWrap("invalid pagination", err)
	}
	return buildQuery(r.Entities, r.Input, r.Filter, r.Sort, r.Flags)
}

func (r *ScrollRequest) toQuery() (storage.SearchQuery, error) {
	if err := r.CursorRequest.Validate(); err != nil {
		return storage.SearchQuery{}, apperr.NewValidationWrap("invalid pagination", err)
	}
	return buildQuery(r.Entities, r.Input, r.Filter, r.Sort, r.Flags)
}

func buildQuery(entities []string, input string, f *filter.Filter, s *SortRequest, flags *query.SearchFlags) (storage.SearchQuery, error) {
	if err := validateFilter(f); err != nil {
		return storage.SearchQuery{}, err
	}
	if flags != nil && flags.MaxAggValues != nil && *flags.MaxAggValues < 0 {
		return storage.SearchQuery{}, apperr.NewValidation("maxAggValues must not be negative")
	}
	sort, err := s.toCriterion()
	if err != nil {
		return storage.SearchQuery{}, err
	}
	return storage.SearchQuery{
		Entities: normalizeEntities(entities),
		Input:    strings.TrimSpace(input),
		Filter:   f,
		Sort:     sort,
		Flags:    flags,
	}, nil
}

func validateFilter(f *filter.Filter) error {
	if err := f.Validate(); err != nil {
		return apperr.NewValidationWrap("invalid filter", err)
	}
	return nil
}

// parseFilterParam decodes the JSON encoded filter query parameter.
func parseFilterParam(raw string) (*filter.Filter, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var f filter.Filter
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, apperr.NewValidationWrap("filter must be a JSON encoded filter", err)
	}
	if err := validateFilter(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// normalizeEntities accepts both repeated and comma separated entity names.
func normalizeEntities(entities []string) []string {
	var out []string
	for _, e := range entities {
		for _, part := range strings.Split(e, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

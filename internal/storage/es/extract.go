package es

import (
	"fmt"
	"sort"
	"time"

	"github.com/DjordjeVuckovic/entity-search/internal/apperr"
	"github.com/DjordjeVuckovic/entity-search/internal/dto"
	"github.com/DjordjeVuckovic/entity-search/internal/types/filter"
	"github.com/DjordjeVuckovic/entity-search/internal/types/schema"
	"github.com/DjordjeVuckovic/entity-search/internal/types/urn"
)

// ExtractResult maps resp onto an offset page.
func (h *RequestHandler) ExtractResult(resp *Response, f *filter.Filter, from, size int) (*dto.SearchResult, error) {
	entities, err := h.extractEntities(resp)
	if err != nil {
		return nil, err
	}

	return &dto.SearchResult{
		Entities:    entities,
		Metadata:    dto.SearchResultMetadata{Aggregations: h.Reconcile(resp.Aggregations, f)},
		From:        from,
		PageSize:    size,
		NumEntities: resp.Hits.Total.Value,
	}, nil
}

// ExtractScrollResult maps resp onto a cursor page. A next cursor is minted
// only when the page is full. Its expiration is set only when the backend
// supports point in time reads.
func (h *RequestHandler) ExtractScrollResult(resp *Response, f *filter.Filter, keepAlive time.Duration, size int, supportsPIT bool, now time.Time) (*dto.ScrollResult, error) {
	entities, err := h.extractEntities(resp)
	if err != nil {
		return nil, err
	}

	result := &dto.ScrollResult{
		Entities:    entities,
		Metadata:    dto.SearchResultMetadata{Aggregations: h.Reconcile(resp.Aggregations, f)},
		PageSize:    size,
		NumEntities: resp.Hits.Total.Value,
	}

	hits := resp.Hits.Hits
	if size <= 0 || len(hits) != size {
		return result, nil
	}

	var expirationMs int64
	if supportsPIT {
		expirationMs = now.Add(keepAlive).UnixMilli()
	}
	last := hits[len(hits)-1]
	scrollID, err := dto.EncodeCursor(dto.NewScrollCursor(last.Sort, resp.PitID, expirationMs))
	if err != nil {
		return nil, fmt.Errorf("failed to mint next cursor from hit %s: %w", last.ID, err)
	}
	result.ScrollID = &scrollID

	return result, nil
}

func (h *RequestHandler) extractEntities(resp *Response) ([]dto.SearchEntity, error) {
	entities := make([]dto.SearchEntity, 0, len(resp.Hits.Hits))
	for i := range resp.Hits.Hits {
		entity, err := h.extractEntity(&resp.Hits.Hits[i])
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func (h *RequestHandler) extractEntity(hit *Hit) (dto.SearchEntity, error) {
	raw, _ := hit.SourceString(schema.UrnField)
	entityUrn, err := urn.Parse(raw)
	if err != nil {
		return dto.SearchEntity{}, apperr.NewDataIntegrity(
			fmt.Sprintf("invalid urn in search document %s", hit.ID), err)
	}

	var score float64
	if hit.Score != nil {
		score = *hit.Score
	}

	return dto.SearchEntity{
		Entity:        entityUrn,
		Score:         score,
		MatchedFields: h.extractMatchedFields(hit),
		Features:      map[string]float64{dto.SearchBackendScoreFeature: score},
	}, nil
}

// extractMatchedFields folds highlight keys onto their logical field, then adds
// one record per matched query name that produced no highlight.
func (h *RequestHandler) extractMatchedFields(hit *Hit) []dto.MatchedField {
	values := make(map[string]map[string]struct{})
	add := func(field, value string) {
		if values[field] == nil {
			values[field] = make(map[string]struct{})
		}
		values[field][value] = struct{}{}
	}

	for key, fragments := range hit.Highlight {
		field, ok := h.schema.LogicalField(key)
		if !ok {
			continue
		}
		for _, fragment := range fragments {
			add(field, fragment)
		}
	}

	for _, name := range hit.MatchedQueries {
		if _, ok := values[name]; ok {
			continue
		}
		fieldValues := hit.FieldValues(name)
		if len(fieldValues) == 0 {
			add(name, "")
			continue
		}
		for _, v := range fieldValues {
			add(name, v)
		}
	}

	matched := make([]dto.MatchedField, 0, len(values))
	for field, set := range values {
		for v := range set {
			matched = append(matched, dto.MatchedField{Name: field, Value: v})
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].Value < matched[j].Value
	})
	return matched
}

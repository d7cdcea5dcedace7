package dto

import (
	"github.com/DjordjeVuckovic/entity-search/internal/types/urn"
)

// SearchBackendScoreFeature is the feature carrying the raw backend relevance score.
const SearchBackendScoreFeature = "SEARCH_BACKEND_SCORE"

// MatchedField is a field that made an entity match, with the matched text.
// Value is empty when the match came from an exact clause without a highlight.
type MatchedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SearchEntity is one hit of a search page.
type SearchEntity struct {
	Entity        urn.Urn            `json:"entity" swaggertype:"string"`
	Score         float64            `json:"score"`
	MatchedFields []MatchedField     `json:"matchedFields"`
	Features      map[string]float64 `json:"features"`
}

// FilterValue is one facet value as offered to a filter panel.
type FilterValue struct {
	Value    string `json:"value"`
	Facet    int64  `json:"facetCount"`
	Filtered bool   `json:"filtered"`
}

// AggregationMetadata holds the document counts per value of one facet field.
type AggregationMetadata struct {
	Name         string           `json:"name"`
	DisplayName  string           `json:"displayName"`
	Aggregations map[string]int64 `json:"aggregations"`
	FilterValues []FilterValue    `json:"filterValues"`
}

type SearchResultMetadata struct {
	Aggregations []AggregationMetadata `json:"aggregations"`
}

// SearchResult is an offset-paginated page.
type SearchResult struct {
	Entities    []SearchEntity       `json:"entities"`
	Metadata    SearchResultMetadata `json:"metadata"`
	From        int                  `json:"from"`
	PageSize    int                  `json:"pageSize"`
	NumEntities int64                `json:"numEntities"`
}

// ScrollResult is a cursor-paginated page. ScrollID is nil on the last page.
type ScrollResult struct {
	Entities    []SearchEntity       `json:"entities"`
	Metadata    SearchResultMetadata `json:"metadata"`
	ScrollID    *string              `json:"scrollId,omitempty"`
	PageSize    int                  `json:"pageSize"`
	NumEntities int64                `json:"numEntities"`
}

// HasMore reports whether another page can be requested.
func (r *ScrollResult) HasMore() bool {
	return r.ScrollID != nil
}

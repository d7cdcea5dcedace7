package storage

import (
	"context"
	"time"

	"github.com/DjordjeVuckovic/entity-search/internal/dto"
	"github.com/DjordjeVuckovic/entity-search/internal/types/filter"
	"github.com/DjordjeVuckovic/entity-search/internal/types/query"
)

// SearchQuery is the caller side description of one search.
type SearchQuery struct {
	// Entities restricts the search to these entity types, in this order.
	// Empty means every known entity type.
	Entities []string
	// Input is the free text. Empty or "*" matches everything.
	Input  string
	Filter *filter.Filter
	Sort   *query.SortCriterion
	Flags  *query.SearchFlags
}

// EntitySearcher is the read path over the entity index.
// Scroll ids are opaque cursor tokens. An empty one starts from the first page.
type EntitySearcher interface {
	// Search returns an offset page. size 0 returns aggregations only.
	Search(ctx context.Context, q SearchQuery, from, size int) (*dto.SearchResult, error)
	// Scroll returns the page after scrollID.
	Scroll(ctx context.Context, q SearchQuery, scrollID string, keepAlive time.Duration, size int) (*dto.ScrollResult, error)
	// Filter returns an offset page matching f only, with no text query.
	Filter(ctx context.Context, entities []string, f *filter.Filter, sort *query.SortCriterion, from, size int) (*dto.SearchResult, error)
	// ScrollFilter is the cursor form of Filter.
	ScrollFilter(ctx context.Context, entities []string, f *filter.Filter, sort *query.SortCriterion, scrollID string, keepAlive time.Duration, size int) (*dto.ScrollResult, error)
	// Aggregate counts documents per value of field under f.
	Aggregate(ctx context.Context, entities []string, field string, f *filter.Filter, limit int) (map[string]int64, error)
}

package es

import (
	"github.com/DjordjeVuckovic/entity-search/internal/types/query"
	"github.com/DjordjeVuckovic/entity-search/internal/types/schema"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
)

const scoreField = "_score"

// buildSort orders by relevance unless criterion names a field, and always
// breaks ties on urn so that search_after positions are unique.
func buildSort(criterion *query.SortCriterion) []types.SortCombinations {
	sorts := make([]types.SortCombinations, 0, 2)

	if criterion == nil || criterion.Field == "" {
		sorts = append(sorts, fieldSort(scoreField, sortorder.Desc))
	} else {
		order := sortorder.Desc
		if criterion.GetOrder() == query.Ascending {
			order = sortorder.Asc
		}
		sorts = append(sorts, fieldSort(criterion.Field, order))
		if criterion.Field == schema.UrnField {
			return sorts
		}
	}

	return append(sorts, fieldSort(schema.UrnField, sortorder.Asc))
}

func fieldSort(field string, order sortorder.SortOrder) *types.SortOptions {
	return &types.SortOptions{
		SortOptions: map[string]types.FieldSort{
			field: {Order: &order},
		},
	}
}

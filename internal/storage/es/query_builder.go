package es

import (
	"fmt"

	"github.com/DjordjeVuckovic/entity-search/internal/types/filter"
	"github.com/DjordjeVuckovic/entity-search/internal/types/query"
	"github.com/DjordjeVuckovic/entity-search/internal/types/schema"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
)

// QueryBuilder turns free text into the text clause of a search request.
// Implementations may be swapped to tune relevance without touching request assembly.
type QueryBuilder interface {
	BuildQuery(s *schema.Schema, input string, fulltext bool) types.Query
}

// DefaultQueryBuilder matches input against the schema's default query fields.
// In full-text mode each field also gets an exact keyword clause named after the
// field, so hits matched without a highlight still report which field matched.
type DefaultQueryBuilder struct{}

var _ QueryBuilder = DefaultQueryBuilder{}

func (DefaultQueryBuilder) BuildQuery(s *schema.Schema, input string, fulltext bool) types.Query {
	if query.IsMatchAll(input) {
		return types.Query{MatchAll: &types.MatchAllQuery{}}
	}

	fields := boostedFields(s)
	and := operator.And

	if !fulltext {
		return types.Query{QueryString: &types.QueryStringQuery{
			Query:           input,
			Fields:          fields,
			DefaultOperator: &and,
		}}
	}

	should := []types.Query{{SimpleQueryString: &types.SimpleQueryStringQuery{
		Query:           input,
		Fields:          fields,
		DefaultOperator: &and,
	}}}
	should = append(should, exactMatchQueries(s, input)...)

	return types.Query{Bool: &types.BoolQuery{
		Should:             should,
		MinimumShouldMatch: 1,
	}}
}

// boostedFields formats default fields as "field^boost" where boost != 1.
func boostedFields(s *schema.Schema) []string {
	defaults := s.DefaultQueryFields()
	fields := make([]string, 0, len(defaults))
	for _, field := range defaults {
		if weight := s.Boost(field); weight != 1.0 {
			fields = append(fields, fmt.Sprintf("%s^%.1f", field, weight))
		} else {
			fields = append(fields, field)
		}
	}
	return fields
}

func exactMatchQueries(s *schema.Schema, input string) []types.Query {
	caseSensitive := make(map[string]bool)
	for _, spec := range s.SearchableFields() {
		if spec.CaseSensitive {
			caseSensitive[spec.FieldName] = true
		}
	}

	queries := make([]types.Query, 0, len(s.DefaultQueryFields()))
	for _, field := range s.DefaultQueryFields() {
		name := field
		insensitive := !caseSensitive[field]
		queries = append(queries, types.Query{Term: map[string]types.TermQuery{
			filter.ToKeywordField(field): {
				Value:           input,
				CaseInsensitive: &insensitive,
				QueryName_:      &name,
			},
		}})
	}
	return queries
}

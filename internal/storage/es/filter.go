package es

import (
	"strings"

	"github.com/DjordjeVuckovic/entity-search/internal/types/filter"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// BuildFilterQuery translates f into a bool query. A nil or empty filter
// matches everything. Soft-deleted documents are excluded unless some
// criterion targets the removed flag itself.
func BuildFilterQuery(f *filter.Filter) types.Query {
	root := types.BoolQuery{}

	var conjunctions []types.BoolQuery
	if f != nil {
		for _, conj := range f.Or {
			if len(conj.And) == 0 {
				continue
			}
			conjunctions = append(conjunctions, conjunctionQuery(conj))
		}
	}

	switch len(conjunctions) {
	case 0:
	case 1:
		root.Filter = conjunctions[0].Filter
		root.MustNot = conjunctions[0].MustNot
	default:
		root.Should = make([]types.Query, 0, len(conjunctions))
		for i := range conjunctions {
			root.Should = append(root.Should, types.Query{Bool: &conjunctions[i]})
		}
		root.MinimumShouldMatch = 1
	}

	if !f.References(filter.RemovedField) {
		root.MustNot = append(root.MustNot, removedQuery())
	}

	return types.Query{Bool: &root}
}

func conjunctionQuery(conj filter.ConjunctiveCriterion) types.BoolQuery {
	q := types.BoolQuery{}
	for _, c := range conj.And {
		cq := criterionQuery(c)
		if c.Negated {
			q.MustNot = append(q.MustNot, cq)
		} else {
			q.Filter = append(q.Filter, cq)
		}
	}
	return q
}

func criterionQuery(c filter.Criterion) types.Query {
	switch cond := c.GetCondition(); cond {
	case filter.Exists:
		return types.Query{Exists: &types.ExistsQuery{Field: c.Field}}
	case filter.IsNull:
		return types.Query{Bool: &types.BoolQuery{
			MustNot: []types.Query{{Exists: &types.ExistsQuery{Field: c.Field}}},
		}}
	case filter.Equal:
		return equalQuery(filter.ToKeywordField(c.Field), c.Values)
	default:
		field := c.Field
		if !cond.IsRange() {
			field = filter.ToKeywordField(c.Field)
		}
		return anyOf(c.Values, func(v string) types.Query {
			return valueQuery(cond, field, v)
		})
	}
}

func equalQuery(field string, values []string) types.Query {
	if len(values) == 1 {
		return types.Query{Term: map[string]types.TermQuery{
			field: {Value: values[0]},
		}}
	}
	terms := make([]types.FieldValue, 0, len(values))
	for _, v := range values {
		terms = append(terms, v)
	}
	return types.Query{Terms: &types.TermsQuery{
		TermsQuery: map[string]types.TermsQueryField{field: terms},
	}}
}

func valueQuery(cond filter.Condition, field, value string) types.Query {
	switch cond {
	case filter.Contain:
		pattern := "*" + escapeWildcard(value) + "*"
		return types.Query{Wildcard: map[string]types.WildcardQuery{field: {Value: &pattern}}}
	case filter.StartWith:
		return types.Query{Prefix: map[string]types.PrefixQuery{field: {Value: value}}}
	case filter.EndWith:
		pattern := "*" + escapeWildcard(value)
		return types.Query{Wildcard: map[string]types.WildcardQuery{field: {Value: &pattern}}}
	case filter.GreaterThan:
		return rangeQuery(field, types.TermRangeQuery{Gt: &value})
	case filter.GreaterThanOrEqual:
		return rangeQuery(field, types.TermRangeQuery{Gte: &value})
	case filter.LessThan:
		return rangeQuery(field, types.TermRangeQuery{Lt: &value})
	case filter.LessThanOrEqual:
		return rangeQuery(field, types.TermRangeQuery{Lte: &value})
	default:
		return types.Query{Term: map[string]types.TermQuery{field: {Value: value}}}
	}
}

func rangeQuery(field string, r types.TermRangeQuery) types.Query {
	return types.Query{Range: map[string]types.RangeQuery{field: r}}
}

// anyOf ORs one query per value; a single value is returned as is.
func anyOf(values []string, build func(string) types.Query) types.Query {
	if len(values) == 1 {
		return build(values[0])
	}
	should := make([]types.Query, 0, len(values))
	for _, v := range values {
		should = append(should, build(v))
	}
	return types.Query{Bool: &types.BoolQuery{Should: should, MinimumShouldMatch: 1}}
}

func removedQuery() types.Query {
	return types.Query{Match: map[string]types.MatchQuery{
		filter.RemovedField: {Query: "true"},
	}}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}

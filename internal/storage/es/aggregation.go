package es

import (
	"log/slog"
	"sort"

	"github.com/DjordjeVuckovic/entity-search/internal/dto"
	"github.com/DjordjeVuckovic/entity-search/internal/types/filter"
	"github.com/DjordjeVuckovic/entity-search/internal/types/schema"
)

// Reconcile turns raw terms aggregations into facet metadata and makes sure
// every value the caller filtered on shows up, with a zero count when the
// backend returned no bucket for it. The urn facet is never surfaced.
func (h *RequestHandler) Reconcile(raw map[string]TermsAggregate, f *filter.Filter) []dto.AggregationMetadata {
	byName := make(map[string]*dto.AggregationMetadata, len(raw))

	for name, agg := range raw {
		if name == schema.UrnField {
			continue
		}
		counts := bucketCounts(agg)
		if len(counts) == 0 {
			continue
		}
		byName[name] = &dto.AggregationMetadata{
			Name:         name,
			DisplayName:  h.schema.DisplayNameOrDefault(name),
			Aggregations: counts,
		}
	}

	selected := make(map[string]map[string]struct{})
	for _, c := range f.Criteria() {
		facet, ok := filter.ToFacetField(c.Field)
		if !ok {
			slog.Warn("Found invalid filter field for entity search, skipping facet", "field", c.Field)
			continue
		}
		if facet == schema.UrnField || len(c.Values) == 0 {
			continue
		}

		meta, ok := byName[facet]
		if !ok {
			meta = &dto.AggregationMetadata{
				Name:         facet,
				DisplayName:  h.schema.DisplayNameOrDefault(facet),
				Aggregations: make(map[string]int64, len(c.Values)),
			}
			byName[facet] = meta
		}
		if selected[facet] == nil {
			selected[facet] = make(map[string]struct{})
		}
		for _, v := range c.Values {
			if _, exists := meta.Aggregations[v]; !exists {
				meta.Aggregations[v] = 0
			}
			selected[facet][v] = struct{}{}
		}
	}

	out := make([]dto.AggregationMetadata, 0, len(byName))
	for name, meta := range byName {
		meta.FilterValues = filterValues(meta.Aggregations, selected[name])
		out = append(out, *meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// ExtractTermAggregations returns value counts of the named aggregation,
// dropping empty buckets. A missing aggregation yields an empty map.
func ExtractTermAggregations(resp *Response, name string) map[string]int64 {
	agg, ok := resp.Aggregations[name]
	if !ok {
		return map[string]int64{}
	}
	return bucketCounts(agg)
}

func bucketCounts(agg TermsAggregate) map[string]int64 {
	counts := make(map[string]int64, len(agg.Buckets))
	for _, b := range agg.Buckets {
		if b.DocCount <= 0 {
			continue
		}
		counts[b.Key] += b.DocCount
	}
	return counts
}

// filterValues orders values by count desc, then value asc.
func filterValues(counts map[string]int64, selected map[string]struct{}) []dto.FilterValue {
	values := make([]dto.FilterValue, 0, len(counts))
	for v, n := range counts {
		_, filtered := selected[v]
		values = append(values, dto.FilterValue{Value: v, Facet: n, Filtered: filtered})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Facet != values[j].Facet {
			return values[i].Facet > values[j].Facet
		}
		return values[i].Value < values[j].Value
	})
	return values
}

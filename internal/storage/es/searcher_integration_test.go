//go:build integration

package es

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/entity-search/internal/storage"
	"github.com/DjordjeVuckovic/entity-search/internal/types/filter"
	"github.com/DjordjeVuckovic/entity-search/internal/types/schema"
	pkgtesting "github.com/DjordjeVuckovic/entity-search/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapping = `{
  "mappings": {
    "properties": {
      "urn":     {"type": "keyword"},
      "removed": {"type": "boolean"}
    }
  }
}`

func seedIndex(ctx context.Context, t *testing.T, cfg ClientConfig) {
	t.Helper()
	client, err := newClient(cfg)
	require.NoError(t, err)

	_, err = client.Indices.Create(cfg.IndexName).Raw(strings.NewReader(testMapping)).Do(ctx)
	require.NoError(t, err)

	docs := []string{
		`{"urn":"urn:li:dataset:(urn:li:dataPlatform:hive,db.orders,PROD)","name":"orders","description":"daily orders","platform":"hive","origin":"PROD","removed":false}`,
		`{"urn":"urn:li:dataset:(urn:li:dataPlatform:hive,db.order_items,PROD)","name":"order_items","description":"line items of orders","platform":"hive","origin":"PROD","removed":false}`,
		`{"urn":"urn:li:dataset:(urn:li:dataPlatform:kafka,orders_topic,DEV)","name":"orders_topic","description":"orders stream","platform":"kafka","origin":"DEV","removed":false}`,
		`{"urn":"urn:li:dataset:(urn:li:dataPlatform:hive,db.orders_old,PROD)","name":"orders_old","description":"legacy orders","platform":"hive","origin":"PROD","removed":true}`,
		`{"urn":"urn:li:chart:(looker,orders_by_day)","title":"Orders by day","platform":"looker","tool":"looker","status":"active","removed":false}`,
	}
	for i, doc := range docs {
		_, err := client.Index(cfg.IndexName).Id(fmt.Sprint(i)).Raw(strings.NewReader(doc)).Do(ctx)
		require.NoError(t, err)
	}

	_, err = client.Indices.Refresh().Index(cfg.IndexName).Do(ctx)
	require.NoError(t, err)
}

func TestSearcher_Integration(t *testing.T) {
	ctx := context.Background()
	container := pkgtesting.NewESContainer(ctx, t)

	cfg := ClientConfig{
		Addresses:           []string{container.Address},
		IndexName:           "entities",
		SupportsPointInTime: true,
		KeepAlive:           time.Minute,
	}
	seedIndex(ctx, t, cfg)

	s, err := NewSearcher(cfg, DefaultSearchConfig(),
		[]schema.EntitySpec{datasetSpec(), chartSpec()},
		WithRegistry(schema.NewRegistry()))
	require.NoError(t, err)

	t.Run("soft deleted entities are hidden", func(t *testing.T) {
		result, err := s.Search(ctx, storage.SearchQuery{Input: "orders"}, 0, 10)
		require.NoError(t, err)

		assert.Equal(t, int64(4), result.NumEntities)
		for _, e := range result.Entities {
			assert.NotContains(t, e.Entity.String(), "orders_old")
			assert.NotEmpty(t, e.MatchedFields)
		}
	})

	t.Run("explicit removed filter is honoured", func(t *testing.T) {
		f := filter.NewFilter(filter.And(filter.Criterion{Field: "removed", Values: []string{"true"}}))
		result, err := s.Filter(ctx, nil, f, nil, 0, 10)
		require.NoError(t, err)

		require.Len(t, result.Entities, 1)
		assert.Contains(t, result.Entities[0].Entity.String(), "orders_old")
	})

	t.Run("zero count bucket for selected value", func(t *testing.T) {
		f := filter.NewFilter(filter.And(filter.Criterion{Field: "platform", Values: []string{"hive", "snowflake"}}))
		result, err := s.Search(ctx, storage.SearchQuery{Input: "*", Filter: f}, 0, 0)
		require.NoError(t, err)

		assert.Empty(t, result.Entities)
		var platform map[string]int64
		for _, agg := range result.Metadata.Aggregations {
			if agg.Name == "platform" {
				platform = agg.Aggregations
			}
		}
		assert.Equal(t, map[string]int64{"hive": 2, "snowflake": 0}, platform)
	})

	t.Run("scroll through every page", func(t *testing.T) {
		seen := map[string]struct{}{}
		scrollID := ""
		for page := 0; page < 5; page++ {
			result, err := s.Scroll(ctx, storage.SearchQuery{Input: "*"}, scrollID, time.Minute, 2)
			require.NoError(t, err)
			for _, e := range result.Entities {
				seen[e.Entity.String()] = struct{}{}
			}
			if !result.HasMore() {
				break
			}
			scrollID = *result.ScrollID
		}
		assert.Len(t, seen, 4)
	})

	t.Run("aggregate", func(t *testing.T) {
		counts, err := s.Aggregate(ctx, nil, "origin", nil, 10)
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"PROD": 2, "DEV": 1}, counts)
	})
}

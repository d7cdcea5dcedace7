//go:build integration

package registry

import (
	"context"
	"testing"

	"github.com/DjordjeVuckovic/entity-search/internal/storage/pg"
	pkgtesting "github.com/DjordjeVuckovic/entity-search/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgSource_Load(t *testing.T) {
	ctx := context.Background()
	container := pkgtesting.NewPGContainerWithCleanup(ctx, t)

	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: container.ConnString})
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.GetConn().Exec(ctx, `
INSERT INTO entity_search_fields (entity_name, position, field_name, add_to_filters, query_by_default, filter_name, boost)
VALUES ('dataset', 2, 'platform', TRUE, FALSE, 'Platform', 1.0),
       ('dataset', 1, 'name', FALSE, TRUE, '', 10.0),
       ('chart', 1, 'title', FALSE, TRUE, '', 8.0)`)
	require.NoError(t, err)

	entities, err := NewPgSource(pool).Load(ctx)
	require.NoError(t, err)

	require.Len(t, entities, 2)
	assert.Equal(t, "chart", entities[0].Name)
	assert.Equal(t, "dataset", entities[1].Name)
	assert.Equal(t, "name", entities[1].Fields[0].FieldName)
	assert.Equal(t, "platform", entities[1].Fields[1].FieldName)
	assert.True(t, pg.NewHealthChecker(pool).Healthy(ctx))
}

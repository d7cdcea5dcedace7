package registry

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/entity-search/internal/storage/pg"
	"github.com/DjordjeVuckovic/entity-search/internal/types/schema"
	"github.com/jackc/pgx/v5"
)

const selectFields = `
SELECT entity_name, field_name, add_to_filters, query_by_default, case_sensitive, filter_name, boost
FROM entity_search_fields
ORDER BY entity_name, position`

// PgSource reads entity declarations from the entity_search_fields table.
type PgSource struct {
	pool *pg.ConnectionPool
}

var _ Source = (*PgSource)(nil)

func NewPgSource(pool *pg.ConnectionPool) *PgSource {
	return &PgSource{pool: pool}
}

type fieldRow struct {
	EntityName     string  `db:"entity_name"`
	FieldName      string  `db:"field_name"`
	AddToFilters   bool    `db:"add_to_filters"`
	QueryByDefault bool    `db:"query_by_default"`
	CaseSensitive  bool    `db:"case_sensitive"`
	FilterName     string  `db:"filter_name"`
	Boost          float64 `db:"boost"`
}

func (s *PgSource) Load(ctx context.Context) ([]schema.EntitySpec, error) {
	rows, err := s.pool.GetConn().Query(ctx, selectFields)
	if err != nil {
		return nil, fmt.Errorf("query entity fields: %w", err)
	}

	fields, err := pgx.CollectRows(rows, pgx.RowToStructByName[fieldRow])
	if err != nil {
		return nil, fmt.Errorf("scan entity fields: %w", err)
	}

	entities := groupByEntity(fields)
	if err := validate(entities); err != nil {
		return nil, err
	}
	return entities, nil
}

// groupByEntity keeps rows in query order, one spec per entity name.
func groupByEntity(rows []fieldRow) []schema.EntitySpec {
	var entities []schema.EntitySpec
	index := make(map[string]int)
	for _, r := range rows {
		i, ok := index[r.EntityName]
		if !ok {
			i = len(entities)
			index[r.EntityName] = i
			entities = append(entities, schema.EntitySpec{Name: r.EntityName})
		}
		entities[i].Fields = append(entities[i].Fields, schema.FieldSpec{
			FieldName:      r.FieldName,
			AddToFilters:   r.AddToFilters,
			QueryByDefault: r.QueryByDefault,
			CaseSensitive:  r.CaseSensitive,
			FilterName:     r.FilterName,
			Boost:          r.Boost,
		})
	}
	return entities
}

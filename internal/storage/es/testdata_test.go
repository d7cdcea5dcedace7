package es

import (
	"testing"

	"github.com/DjordjeVuckovic/entity-search/internal/types/schema"
	"github.com/stretchr/testify/require"
)

func datasetSpec() schema.EntitySpec {
	return schema.EntitySpec{
		Name: "dataset",
		Fields: []schema.FieldSpec{
			{FieldName: "name", QueryByDefault: true, Boost: 10},
			{FieldName: "description", QueryByDefault: true},
			{FieldName: "status", QueryByDefault: true, CaseSensitive: true},
			{FieldName: "platform", AddToFilters: true, FilterName: "Platform"},
			{FieldName: "origin", AddToFilters: true, FilterName: "Environment"},
			{FieldName: "urn", AddToFilters: true, FilterName: "Urn"},
		},
	}
}

func chartSpec() schema.EntitySpec {
	return schema.EntitySpec{
		Name: "chart",
		Fields: []schema.FieldSpec{
			{FieldName: "title", QueryByDefault: true, Boost: 8},
			{FieldName: "platform", AddToFilters: true, FilterName: "Platform"},
			{FieldName: "tool", AddToFilters: true, FilterName: "Tool"},
		},
	}
}

func newTestHandler(t *testing.T, specs ...schema.EntitySpec) *RequestHandler {
	t.Helper()
	if len(specs) == 0 {
		specs = []schema.EntitySpec{datasetSpec(), chartSpec()}
	}
	s, err := schema.Resolve(specs)
	require.NoError(t, err)
	return NewRequestHandler(s, DefaultSearchConfig(), nil)
}

package schema

import (
	"testing"

	"github.com/DjordjeVuckovic/entity-search/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_SingleEntity(t *testing.T) {
	s, err := Resolve([]EntitySpec{datasetSpec()})
	require.NoError(t, err)

	assert.Equal(t, []string{"origin", "platform"}, s.FacetFields())
	assert.Equal(t, []string{"description", "name", "urn"}, s.DefaultQueryFields())
	assert.Equal(t, []string{"dataset"}, s.Entities())
	assert.Len(t, s.SearchableFields(), 5)

	name, ok := s.DisplayName("platform")
	assert.True(t, ok)
	assert.Equal(t, "Platform", name)

	_, ok = s.DisplayName("name")
	assert.False(t, ok)
	assert.True(t, s.IsFacet("origin"))
	assert.False(t, s.IsFacet("removed"))
}

func TestResolve_UnionAcrossEntities(t *testing.T) {
	s, err := Resolve([]EntitySpec{datasetSpec(), chartSpec()})
	require.NoError(t, err)

	assert.Equal(t, []string{"origin", "platform", "tool"}, s.FacetFields())
	assert.Equal(t, []string{"description", "name", "title", "urn"}, s.DefaultQueryFields())
	assert.Equal(t, "Tool", s.DisplayNameOrDefault("tool"))
	assert.Equal(t, "unknown", s.DisplayNameOrDefault("unknown"))
}

func TestResolve_OrderDoesNotChangeSemantics(t *testing.T) {
	a, err := Resolve([]EntitySpec{datasetSpec(), chartSpec()})
	require.NoError(t, err)
	b, err := Resolve([]EntitySpec{chartSpec(), datasetSpec()})
	require.NoError(t, err)

	assert.Equal(t, a.FacetFields(), b.FacetFields())
	assert.Equal(t, a.DefaultQueryFields(), b.DefaultQueryFields())
	assert.Equal(t, a.HighlightFields(), b.HighlightFields())
}

func TestResolve_DisplayNameConflict(t *testing.T) {
	conflicting := EntitySpec{
		Name: "dashboard",
		Fields: []FieldSpec{
			{FieldName: "platform", AddToFilters: true, FilterName: "Data Platform"},
		},
	}

	_, err := Resolve([]EntitySpec{datasetSpec(), conflicting})
	require.Error(t, err)

	var ce *apperr.SchemaConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "platform", ce.Field)
	assert.Equal(t, "Platform", ce.First)
	assert.Equal(t, "Data Platform", ce.Second)
}

func TestResolve_EmptyFieldName(t *testing.T) {
	_, err := Resolve([]EntitySpec{{Name: "broken", Fields: []FieldSpec{{FieldName: " "}}}})

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestSchema_HighlightFields(t *testing.T) {
	s, err := Resolve([]EntitySpec{datasetSpec()})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"description", "description.*",
		"name", "name.*",
		"urn", "urn.*",
	}, s.HighlightFields())
}

func TestSchema_LogicalField(t *testing.T) {
	s, err := Resolve([]EntitySpec{{
		Name: "glossaryTerm",
		Fields: []FieldSpec{
			{FieldName: "name", QueryByDefault: true},
			{FieldName: "nameV2", QueryByDefault: true},
		},
	}})
	require.NoError(t, err)

	tests := []struct {
		key   string
		want  string
		found bool
	}{
		{"name.delimited", "name", true},
		{"nameV2.ngram", "nameV2", true},
		{"urn", "urn", true},
		{"description", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := s.LogicalField(tt.key)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchema_Boost(t *testing.T) {
	s, err := Resolve([]EntitySpec{datasetSpec()})
	require.NoError(t, err)

	assert.Equal(t, 10.0, s.Boost("name"))
	assert.Equal(t, 1.0, s.Boost("description"))
	assert.Equal(t, 1.0, s.Boost("urn"))
}

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		input   string
		want    Condition
		wantErr bool
	}{
		{"", Equal, false},
		{"equal", Equal, false},
		{"CONTAIN", Contain, false},
		{"greater_than_or_equal_to", GreaterThanOrEqual, false},
		{"between", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCondition(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCriterion_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       Criterion
		wantErr string
	}{
		{"equal with values", Criterion{Field: "platform", Values: []string{"hive"}}, ""},
		{"exists without values", Criterion{Field: "owners", Condition: Exists}, ""},
		{"missing field", Criterion{Values: []string{"x"}}, "field is required"},
		{"equal without values", Criterion{Field: "platform"}, "at least one value"},
		{"range with two values", Criterion{Field: "createdAt", Condition: GreaterThan, Values: []string{"1", "2"}}, "exactly one value"},
		{"unknown condition", Criterion{Field: "x", Condition: "BETWEEN", Values: []string{"1"}}, "invalid filter condition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFilter_References(t *testing.T) {
	tests := []struct {
		name string
		f    *Filter
		want bool
	}{
		{"nil filter", nil, false},
		{"no removed criterion", NewFilter(And(Criterion{Field: "platform", Values: []string{"hive"}})), false},
		{"raw removed", NewFilter(And(Criterion{Field: "removed", Values: []string{"true"}})), true},
		{"keyword removed", NewFilter(And(Criterion{Field: "removed.keyword", Values: []string{"true"}})), true},
		{
			"removed in second conjunction",
			NewFilter(
				And(Criterion{Field: "platform", Values: []string{"hive"}}),
				And(Criterion{Field: "removed", Values: []string{"false"}}),
			),
			true,
		},
		{"prefix only", NewFilter(And(Criterion{Field: "removedAt", Values: []string{"1"}})), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.References(RemovedField))
		})
	}
}

func TestFilter_IsEmptyAndCriteria(t *testing.T) {
	var nilFilter *Filter
	assert.True(t, nilFilter.IsEmpty())
	assert.Nil(t, nilFilter.Criteria())
	assert.True(t, NewFilter(And()).IsEmpty())

	f := NewFilter(
		And(Criterion{Field: "a", Values: []string{"1"}}, Criterion{Field: "b", Values: []string{"2"}}),
		And(Criterion{Field: "c", Values: []string{"3"}}),
	)
	assert.False(t, f.IsEmpty())
	require.Len(t, f.Criteria(), 3)
	assert.Equal(t, "c", f.Criteria()[2].Field)
}

func TestFilter_ValidateReportsPosition(t *testing.T) {
	f := NewFilter(
		And(Criterion{Field: "a", Values: []string{"1"}}),
		And(Criterion{Field: "b"}),
	)

	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "or[1].and[0]")
}

func TestToFacetField(t *testing.T) {
	tests := []struct {
		field string
		want  string
		ok    bool
	}{
		{"platform", "platform", true},
		{"platform.keyword", "platform", true},
		{"urn", "urn", true},
		{".keyword", "", false},
		{"", "", false},
		{"bad field", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := ToFacetField(tt.field)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToKeywordField(t *testing.T) {
	assert.Equal(t, "platform.keyword", ToKeywordField("platform"))
	assert.Equal(t, "platform.keyword", ToKeywordField("platform.keyword"))
	assert.Equal(t, "urn", ToKeywordField("urn"))
	assert.Equal(t, "removed", ToKeywordField("removed"))
}

package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultFlags(t *testing.T) {
	longInput := strings.Repeat("a", MaxFulltextQueryLength+1)

	tests := []struct {
		name  string
		flags *SearchFlags
		input string
		want  Flags
	}{
		{
			name:  "nil flags take defaults",
			flags: nil,
			input: "orders",
			want:  Flags{Fulltext: false, MaxAggValues: 20},
		},
		{
			name:  "explicit values win",
			flags: &SearchFlags{Fulltext: Bool(true), SkipAggregates: Bool(true), MaxAggValues: Int(5)},
			input: "orders",
			want:  Flags{Fulltext: true, SkipAggregates: true, MaxAggValues: 5},
		},
		{
			name:  "match all skips highlighting",
			flags: &SearchFlags{SkipHighlighting: Bool(false)},
			input: "*",
			want:  Flags{Fulltext: false, SkipHighlighting: true, MaxAggValues: 20},
		},
		{
			name:  "empty input skips highlighting",
			input: "",
			want:  Flags{Fulltext: false, SkipHighlighting: true, MaxAggValues: 20},
		},
		{
			name:  "long input forces structured mode",
			flags: &SearchFlags{SkipCache: Bool(true)},
			input: longInput,
			want:  Flags{Fulltext: false, SkipCache: true, MaxAggValues: 20},
		},
		{
			name:  "long input keeps explicit fulltext",
			flags: &SearchFlags{Fulltext: Bool(true)},
			input: longInput,
			want:  Flags{Fulltext: true, MaxAggValues: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDefaultFlags(tt.flags, tt.input, DefaultFlags)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyDefaultFlags_LongInputOverridesFulltextDefault(t *testing.T) {
	defaults := DefaultFlags
	defaults.Fulltext = Bool(true)

	short := ApplyDefaultFlags(nil, "orders", defaults)
	long := ApplyDefaultFlags(nil, strings.Repeat("b", MaxFulltextQueryLength+1), defaults)

	assert.True(t, short.Fulltext)
	assert.False(t, long.Fulltext)
}

func TestApplyDefaultFlags_DoesNotMutateInput(t *testing.T) {
	in := &SearchFlags{}
	_ = ApplyDefaultFlags(in, "*", DefaultFlags)

	assert.Nil(t, in.SkipHighlighting)
	assert.Nil(t, in.Fulltext)
}

func TestParseSortOrder(t *testing.T) {
	for input, want := range map[string]SortOrder{
		"":           Descending,
		"desc":       Descending,
		"ASC":        Ascending,
		"ascending":  Ascending,
		"DESCENDING": Descending,
	} {
		got, err := ParseSortOrder(input)
		assert.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseSortOrder("sideways")
	assert.Error(t, err)
}

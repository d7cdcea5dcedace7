package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var graded = Judgments[string]{"a": 3, "b": 2, "c": 1, "d": 0}

func TestPrecisionAndRecallAtK(t *testing.T) {
	tests := []struct {
		name          string
		ranked        []string
		k             int
		wantPrecision float64
		wantRecall    float64
	}{
		{"empty ranked list", nil, 5, 0, 0},
		{"k=0", []string{"a"}, 0, 0, 0},
		{"all relevant", []string{"a", "b"}, 2, 1, 2.0 / 3},
		{"mixed", []string{"a", "x", "d", "c"}, 4, 0.5, 2.0 / 3},
		{"short list divides by k", []string{"a"}, 4, 0.25, 1.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantPrecision, PrecisionAtK(tt.ranked, graded, tt.k, 1), 1e-9)
			assert.InDelta(t, tt.wantRecall, RecallAtK(tt.ranked, graded, tt.k, 1), 1e-9)
		})
	}
}

func TestAveragePrecisionAndReciprocalRank(t *testing.T) {
	ranked := []string{"x", "a", "y", "b"}

	// relevant at ranks 2 and 4: (1/2 + 2/4) / 3
	assert.InDelta(t, (0.5+0.5)/3, AveragePrecision(ranked, graded, 1), 1e-9)
	assert.InDelta(t, 0.5, ReciprocalRank(ranked, graded, 1), 1e-9)
	assert.Equal(t, 0.0, ReciprocalRank([]string{"x"}, graded, 1))
	assert.Equal(t, 0.0, AveragePrecision(ranked, Judgments[string]{}, 1))
}

func TestNDCGAtK(t *testing.T) {
	tests := []struct {
		name   string
		ranked []string
		k      int
		check  func(t *testing.T, got float64)
	}{
		{"perfect ranking", []string{"a", "b", "c"}, 3, func(t *testing.T, got float64) { assert.InDelta(t, 1.0, got, 1e-9) }},
		{"inverse ranking", []string{"c", "b", "a"}, 3, func(t *testing.T, got float64) {
			assert.Greater(t, got, 0.0)
			assert.Less(t, got, 1.0)
		}},
		{"nothing relevant retrieved", []string{"x", "y"}, 2, func(t *testing.T, got float64) { assert.Equal(t, 0.0, got) }},
		{"k=0", []string{"a"}, 0, func(t *testing.T, got float64) { assert.Equal(t, 0.0, got) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, NDCGAtK(tt.ranked, graded, tt.k))
		})
	}
}

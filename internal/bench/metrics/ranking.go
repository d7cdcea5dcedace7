package metrics

import (
	"math"
	"slices"
)

// Judgments grades documents by id. Unjudged documents grade 0.
type Judgments[K comparable] map[K]int

// PrecisionAtK computes the fraction of top-K results that are relevant.
// A document is relevant if its judgment >= relevanceThreshold.
func PrecisionAtK[K comparable](ranked []K, judgments Judgments[K], k, relevanceThreshold int) float64 {
	if k <= 0 || len(ranked) == 0 {
		return 0
	}
	return float64(relevantIn(ranked, judgments, k, relevanceThreshold)) / float64(k)
}

// RecallAtK computes the fraction of all relevant documents found in top-K.
func RecallAtK[K comparable](ranked []K, judgments Judgments[K], k, relevanceThreshold int) float64 {
	if k <= 0 || len(ranked) == 0 {
		return 0
	}
	total := countRelevant(judgments, relevanceThreshold)
	if total == 0 {
		return 0
	}
	return float64(relevantIn(ranked, judgments, k, relevanceThreshold)) / float64(total)
}

// AveragePrecision computes the mean of precision values at each relevant rank position.
func AveragePrecision[K comparable](ranked []K, judgments Judgments[K], relevanceThreshold int) float64 {
	total := countRelevant(judgments, relevanceThreshold)
	if len(ranked) == 0 || total == 0 {
		return 0
	}

	var sum float64
	var seen int
	for i, id := range ranked {
		if judgments[id] >= relevanceThreshold {
			seen++
			sum += float64(seen) / float64(i+1)
		}
	}
	return sum / float64(total)
}

// ReciprocalRank returns 1/rank of the first relevant document.
func ReciprocalRank[K comparable](ranked []K, judgments Judgments[K], relevanceThreshold int) float64 {
	for i, id := range ranked {
		if judgments[id] >= relevanceThreshold {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

// NDCGAtK computes Normalized Discounted Cumulative Gain at rank K
// with graded gain 2^rel - 1.
func NDCGAtK[K comparable](ranked []K, judgments Judgments[K], k int) float64 {
	if k <= 0 || len(ranked) == 0 || len(judgments) == 0 {
		return 0
	}

	var dcg float64
	for i := 0; i < min(k, len(ranked)); i++ {
		dcg += gain(judgments[ranked[i]], i)
	}

	rels := make([]int, 0, len(judgments))
	for _, rel := range judgments {
		if rel > 0 {
			rels = append(rels, rel)
		}
	}
	slices.Sort(rels)
	slices.Reverse(rels)

	var idcg float64
	for i := 0; i < min(k, len(rels)); i++ {
		idcg += gain(rels[i], i)
	}
	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

func gain(rel, pos int) float64 {
	return (math.Pow(2, float64(rel)) - 1) / math.Log2(float64(pos+2))
}

func relevantIn[K comparable](ranked []K, judgments Judgments[K], k, threshold int) int {
	var n int
	for _, id := range ranked[:min(k, len(ranked))] {
		if judgments[id] >= threshold {
			n++
		}
	}
	return n
}

func countRelevant[K comparable](judgments Judgments[K], threshold int) int {
	var n int
	for _, rel := range judgments {
		if rel >= threshold {
			n++
		}
	}
	return n
}

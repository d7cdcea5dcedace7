package runner

import (
	"math"
	"slices"
	"time"
)

type LatencyStats struct {
	Min         time.Duration         `json:"min"`
	Max         time.Duration         `json:"max"`
	Mean        time.Duration         `json:"mean"`
	Stddev      time.Duration         `json:"stddev"`
	Percentiles map[int]time.Duration `json:"percentiles"`
	SampleCount int                   `json:"sampleCount"`
	Raw         []time.Duration       `json:"-"`
}

var defaultPercentiles = []int{50, 90, 95, 99}

func ComputeLatencyStats(durations []time.Duration) LatencyStats {
	stats := LatencyStats{Percentiles: make(map[int]time.Duration, len(defaultPercentiles))}
	if len(durations) == 0 {
		return stats
	}

	sorted := slices.Clone(durations)
	slices.Sort(sorted)

	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.SampleCount = len(sorted)
	stats.Raw = durations

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	stats.Mean = sum / time.Duration(len(sorted))

	if len(sorted) > 1 {
		var sumSquares float64
		mean := float64(stats.Mean)
		for _, d := range sorted {
			diff := float64(d) - mean
			sumSquares += diff * diff
		}
		stats.Stddev = time.Duration(math.Sqrt(sumSquares / float64(len(sorted)-1)))
	}

	for _, p := range defaultPercentiles {
		stats.Percentiles[p] = percentile(sorted, p)
	}
	return stats
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	rank := float64(p) / 100.0 * float64(len(sorted)-1)
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := rank - float64(lower)
	return time.Duration(float64(sorted[lower])*(1-weight) + float64(sorted[lower+1])*weight)
}

// MergeLatencyStats recomputes stats over the raw samples of every input.
func MergeLatencyStats(stats []LatencyStats) LatencyStats {
	var all []time.Duration
	for _, s := range stats {
		all = append(all, s.Raw...)
	}
	return ComputeLatencyStats(all)
}

func (s LatencyStats) P50() time.Duration { return s.Percentiles[50] }
func (s LatencyStats) P95() time.Duration { return s.Percentiles[95] }
func (s LatencyStats) P99() time.Duration { return s.Percentiles[99] }

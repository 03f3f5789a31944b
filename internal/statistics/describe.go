// Package statistics computes numeric summaries of leaderboard scores.
package statistics

import (
	"math"
	"sort"
)

// Summary describes a non-empty set of scores.
type Summary struct {
	Count  int     `json:"count"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	// StdDev is the population standard deviation.
	StdDev float64 `json:"stdDev"`
}

// Describe summarizes values. ok is false for an empty input, in which case
// none of the fields carry meaning.
func Describe(values []float64) (s Summary, ok bool) {
	if len(values) == 0 {
		return Summary{}, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Count = len(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Mean = Mean(sorted)
	s.Median = median(sorted)

	var sq float64
	for _, v := range sorted {
		d := v - s.Mean
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(len(sorted)))
	return s, true
}

// Mean is the arithmetic mean; 0 for an empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

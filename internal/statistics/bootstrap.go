package statistics

import (
	"math"
	"math/rand"
	"sort"
)

// Interval is a bootstrap confidence interval of a mean score.
type Interval struct {
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	Mean      float64 `json:"mean"`
	Level     float64 `json:"level"`
	Resamples int     `json:"resamples"`
}

const (
	// DefaultResamples is the number of bootstrap resamples.
	DefaultResamples = 5000
	// DefaultLevel is the confidence level of summary intervals.
	DefaultLevel = 0.95
	// DefaultSeed keeps summary intervals stable across requests for the
	// same scores.
	DefaultSeed int64 = 20240601
)

// MeanInterval computes a percentile bootstrap interval of the mean of
// values at the given level, e.g. 0.95. A negative seed draws from a
// non-deterministic source. With fewer than two values the interval is
// degenerate and no resampling happens.
func MeanInterval(values []float64, level float64, seed int64) Interval {
	n := len(values)
	m := Mean(values)
	if n < 2 {
		return Interval{Lower: m, Upper: m, Mean: m, Level: level}
	}

	if seed < 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	iters := DefaultResamples
	means := make([]float64, iters)
	sample := make([]float64, n)
	for i := range means {
		for j := range sample {
			sample[j] = values[rng.Intn(n)]
		}
		means[i] = Mean(sample)
	}
	sort.Float64s(means)

	alpha := 1.0 - level
	lo := int(math.Floor(alpha / 2.0 * float64(iters)))
	hi := int(math.Floor((1.0 - alpha/2.0) * float64(iters)))
	if hi >= iters {
		hi = iters - 1
	}

	return Interval{
		Lower:     means[lo],
		Upper:     means[hi],
		Mean:      m,
		Level:     level,
		Resamples: iters,
	}
}

// ExcludesZero reports whether the interval lies entirely on one side of
// zero. Over per-task score differences this means one model is reliably
// ahead of the other.
func ExcludesZero(iv Interval) bool {
	return iv.Lower > 0 || iv.Upper < 0
}

// NormalizedGain is Hake's normalized gain for scores in [0, 1]:
//
//	g = (to - from) / (1 - from)
//
// It is 0 when from is already at the ceiling or nothing changed, and 1 when
// to reaches the ceiling.
func NormalizedGain(from, to float64) float64 {
	if from >= 1.0 {
		return 0.0
	}
	if to >= 1.0 {
		return 1.0
	}
	if math.Abs(to-from) < 1e-12 {
		return 0.0
	}
	return (to - from) / (1.0 - from)
}

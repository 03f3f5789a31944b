package ranking

import (
	"sort"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/results"
	"github.com/bengali-mteb/leaderboard/internal/statistics"
)

// MainScore is the designated primary metric of every task.
const MainScore = "main_score"

// AvailableMetrics is the sorted union of metric names in the test records
// of task across all models.
func AvailableMetrics(agg *results.Aggregate, task catalog.TaskID) []string {
	if agg == nil {
		return nil
	}
	seen := make(map[string]bool)
	for _, m := range agg.Models() {
		for _, metric := range agg.Record(m, task).Metrics() {
			seen[metric] = true
		}
	}
	out := make([]string, 0, len(seen))
	for metric := range seen {
		out = append(out, metric)
	}
	sort.Strings(out)
	return out
}

// DefaultMetric picks main_score when available, else the first available
// metric. With nothing available it still answers main_score.
func DefaultMetric(available []string) string {
	for _, m := range available {
		if m == MainScore {
			return MainScore
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return MainScore
}

// Summary aggregates a ranking. Every score is absent when the ranking is
// empty.
type Summary struct {
	Count   int           `json:"count"`
	Best    results.Score `json:"best"`
	Average results.Score `json:"average"`
	Min     results.Score `json:"min"`
	Median  results.Score `json:"median"`
	StdDev  results.Score `json:"stdDev"`
	// Interval is a bootstrap interval of the average; nil when empty.
	Interval *statistics.Interval `json:"interval,omitempty"`
}

// Summarize computes the summary cards of a ranking. Best is the highest
// score whatever the ranking order.
func Summarize(entries []Entry) Summary {
	values := make([]float64, 0, len(entries))
	for _, e := range entries {
		if v, ok := e.Score.Get(); ok {
			values = append(values, v)
		}
	}
	s := Summary{Count: len(entries)}
	d, ok := statistics.Describe(values)
	if !ok {
		return s
	}
	iv := statistics.MeanInterval(values, statistics.DefaultLevel, statistics.DefaultSeed)
	s.Best = results.Some(d.Max)
	s.Average = results.Some(d.Mean)
	s.Min = results.Some(d.Min)
	s.Median = results.Some(d.Median)
	s.StdDev = results.Some(d.StdDev)
	s.Interval = &iv
	return s
}

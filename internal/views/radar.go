package views

import (
	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/ranking"
	"github.com/bengali-mteb/leaderboard/internal/results"
)

const (
	// DefaultRadarTopN is the number of models compared on the radar.
	DefaultRadarTopN = 5
	// RadarMetricLimit caps the number of radar axes.
	RadarMetricLimit = 6
)

// RadarSeries is one model's polygon. Values follow Radar.Metrics; a
// missing value stays absent rather than being drawn as zero.
type RadarSeries struct {
	ModelRef
	Values []results.Score `json:"values"`
}

// Radar compares the top models of a task across several metrics.
type Radar struct {
	Task    catalog.TaskID `json:"task"`
	Metrics []string       `json:"metrics"`
	Series  []RadarSeries  `json:"series"`
}

// BuildRadar picks the n best models of task by main_score, ignoring models
// without a positive main_score, and reads the first RadarMetricLimit
// available metrics for each. n <= 0 means DefaultRadarTopN.
func BuildRadar(agg *results.Aggregate, task catalog.TaskID, n int) Radar {
	if n <= 0 {
		n = DefaultRadarTopN
	}
	metrics := ranking.AvailableMetrics(agg, task)
	if len(metrics) > RadarMetricLimit {
		metrics = metrics[:RadarMetricLimit]
	}

	r := Radar{Task: task, Metrics: metrics}
	for _, e := range ranking.Rank(agg, task, ranking.MainScore, ranking.Desc) {
		if len(r.Series) == n {
			break
		}
		if e.Score.Value <= 0 {
			continue
		}
		s := RadarSeries{ModelRef: Ref(e.Model), Values: make([]results.Score, len(metrics))}
		for i, metric := range metrics {
			s.Values[i] = agg.Score(e.Model, task, metric)
		}
		r.Series = append(r.Series, s)
	}
	return r
}

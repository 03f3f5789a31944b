package views

import (
	"errors"
	"fmt"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/results"
	"github.com/bengali-mteb/leaderboard/internal/statistics"
)

// ComparisonRow is one task of a model comparison.
type ComparisonRow struct {
	Task   TaskRef         `json:"task"`
	Scores []results.Score `json:"scores"`
	// Delta is last minus first model; absent unless both have a score.
	Delta results.Score `json:"delta"`
	// Gain is the normalized gain from first to last model.
	Gain results.Score `json:"gain"`
}

// Comparison lines up two or more models task by task.
type Comparison struct {
	Metric string          `json:"metric"`
	Models []ModelRef      `json:"models"`
	Rows   []ComparisonRow `json:"rows"`
	// Interval bounds the mean per-task delta; nil with no comparable task.
	Interval *statistics.Interval `json:"interval,omitempty"`
	// Significant is set when the interval excludes zero over at least two
	// tasks.
	Significant bool `json:"significant"`
}

// Compare reads metric for each model on every catalog task.
func Compare(agg *results.Aggregate, cat *catalog.Catalog, models []catalog.ModelID, metric string) (Comparison, error) {
	if len(models) < 2 {
		return Comparison{}, errors.New("compare needs at least two models")
	}
	c := Comparison{Metric: metric, Models: make([]ModelRef, len(models))}
	for i, m := range models {
		if !agg.HasModel(m) {
			return Comparison{}, fmt.Errorf("unknown model %q", m)
		}
		c.Models[i] = Ref(m)
	}

	first, last := models[0], models[len(models)-1]
	var deltas []float64
	for _, t := range cat.Tasks {
		row := ComparisonRow{Task: TaskRef{ID: t.ID, Name: t.Name}, Scores: make([]results.Score, len(models))}
		for i, m := range models {
			row.Scores[i] = agg.Score(m, t.ID, metric)
		}
		from, okFrom := agg.Score(first, t.ID, metric).Get()
		to, okTo := agg.Score(last, t.ID, metric).Get()
		if okFrom && okTo {
			row.Delta = results.Some(to - from)
			row.Gain = results.Some(statistics.NormalizedGain(from, to))
			deltas = append(deltas, to-from)
		}
		c.Rows = append(c.Rows, row)
	}

	if len(deltas) > 0 {
		iv := statistics.MeanInterval(deltas, statistics.DefaultLevel, statistics.DefaultSeed)
		c.Interval = &iv
		c.Significant = len(deltas) >= 2 && statistics.ExcludesZero(iv)
	}
	return c, nil
}

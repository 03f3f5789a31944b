package views

import (
	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/ranking"
	"github.com/bengali-mteb/leaderboard/internal/results"
)

// DefaultHeatmapTopK is the number of top-ranked models in the heatmap.
const DefaultHeatmapTopK = 10

// TaskRef names a task for display.
type TaskRef struct {
	ID   catalog.TaskID `json:"id"`
	Name string         `json:"name"`
}

// HeatmapCell is the main_score of one model on one task. NoData is set
// instead of a zero when the score is missing.
type HeatmapCell struct {
	Task   catalog.TaskID `json:"task"`
	Score  results.Score  `json:"score"`
	NoData bool           `json:"noData"`
}

// HeatmapRow is one model across all tasks.
type HeatmapRow struct {
	ModelRef
	Cells []HeatmapCell `json:"cells"`
}

// Heatmap is the cross-task comparison of the top models.
type Heatmap struct {
	Tasks []TaskRef    `json:"tasks"`
	Rows  []HeatmapRow `json:"rows"`
}

// BuildHeatmap takes the first k entries of a ranking and looks up their
// main_score on every catalog task directly in the aggregate. k <= 0 means
// DefaultHeatmapTopK.
func BuildHeatmap(agg *results.Aggregate, cat *catalog.Catalog, entries []ranking.Entry, k int) Heatmap {
	if k <= 0 {
		k = DefaultHeatmapTopK
	}
	if k > len(entries) {
		k = len(entries)
	}

	h := Heatmap{
		Tasks: make([]TaskRef, len(cat.Tasks)),
		Rows:  make([]HeatmapRow, 0, k),
	}
	for i, t := range cat.Tasks {
		h.Tasks[i] = TaskRef{ID: t.ID, Name: t.Name}
	}
	for _, e := range entries[:k] {
		row := HeatmapRow{ModelRef: Ref(e.Model), Cells: make([]HeatmapCell, len(cat.Tasks))}
		for i, t := range cat.Tasks {
			s := agg.Score(e.Model, t.ID, ranking.MainScore)
			row.Cells[i] = HeatmapCell{Task: t.ID, Score: s, NoData: !s.Valid}
		}
		h.Rows = append(h.Rows, row)
	}
	return h
}

package views

import (
	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/results"
)

// DetailMetrics are the fixed columns of the model detail panel.
var DetailMetrics = []string{"main_score", "accuracy", "f1"}

// MetricValue pairs a metric name with its score.
type MetricValue struct {
	Metric string        `json:"metric"`
	Score  results.Score `json:"score"`
}

// ArtifactInfo is the metadata of a loaded artifact.
type ArtifactInfo struct {
	TaskName        string        `json:"taskName,omitempty"`
	MTEBVersion     string        `json:"mtebVersion,omitempty"`
	DatasetRevision string        `json:"datasetRevision,omitempty"`
	EvaluationTime  results.Score `json:"evaluationTime"`
}

// TaskDetail is one task of a model's detail panel. Fixed always lists
// DetailMetrics; without a result its scores are absent and Record and Info
// are nil.
type TaskDetail struct {
	Task      TaskRef              `json:"task"`
	Available bool                 `json:"available"`
	Fixed     []MetricValue        `json:"fixed"`
	Record    *results.ScoreRecord `json:"record,omitempty"`
	Info      *ArtifactInfo        `json:"info,omitempty"`
}

// Status is the label of the availability column.
func (d TaskDetail) Status() string {
	if d.Available {
		return "Available"
	}
	return "No Data"
}

// ModelDetail is the per-model rollup across every catalog task.
type ModelDetail struct {
	ModelRef
	URL   string       `json:"url"`
	Tasks []TaskDetail `json:"tasks"`
	// Available counts tasks with a loaded result.
	Available int `json:"available"`
}

// BuildModelDetail projects the aggregate onto one model. ok is false when
// the model is not part of the aggregate.
func BuildModelDetail(agg *results.Aggregate, cat *catalog.Catalog, urls *catalog.URLResolver, m catalog.ModelID) (ModelDetail, bool) {
	if !agg.HasModel(m) {
		return ModelDetail{}, false
	}
	d := ModelDetail{
		ModelRef: Ref(m),
		URL:      urls.ModelURL(m),
		Tasks:    make([]TaskDetail, 0, len(cat.Tasks)),
	}
	for _, t := range cat.Tasks {
		td := TaskDetail{Task: TaskRef{ID: t.ID, Name: t.Name}}
		fixed := make([]MetricValue, len(DetailMetrics))
		for i, metric := range DetailMetrics {
			fixed[i] = MetricValue{Metric: metric}
		}
		if res, ok := agg.Result(m, t.ID); ok && res.Record() != nil {
			td.Available = true
			td.Record = res.Record()
			td.Info = &ArtifactInfo{
				TaskName:        res.TaskName,
				MTEBVersion:     res.MTEBVersion,
				DatasetRevision: res.DatasetRevision,
				EvaluationTime:  res.EvaluationTime,
			}
			for i := range fixed {
				fixed[i].Score = td.Record.Get(fixed[i].Metric)
			}
			d.Available++
		}
		td.Fixed = fixed
		d.Tasks = append(d.Tasks, td)
	}
	return d, true
}

package webapi

import (
	"context"
	"fmt"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/ranking"
	"github.com/bengali-mteb/leaderboard/internal/results"
	"github.com/bengali-mteb/leaderboard/internal/views"
)

// Settings sizes the derived views.
type Settings struct {
	HeatmapTopK int
	RadarTopN   int
	URLs        *catalog.URLResolver
}

// Query is a dashboard selection as received from a client. Empty fields
// take their defaults.
type Query struct {
	Task   string
	Metric string
	Order  string
	// Sort is the table column the user sorted by.
	Sort string
	// SortOrder is the direction of the table column sort.
	SortOrder string
	Model     string
}

// Selection is a resolved Query.
type Selection struct {
	Task    catalog.Task       `json:"task"`
	Metric  string             `json:"metric"`
	Order   ranking.Order      `json:"order"`
	Sort    ranking.ColumnSort `json:"sort"`
	Model   catalog.ModelID    `json:"model,omitempty"`
	Metrics []string           `json:"metrics"`
}

// Service answers dashboard queries against the store's current aggregate.
type Service struct {
	store    ResultStore
	settings Settings
}

// NewService creates a Service. Zero settings take the view defaults.
func NewService(store ResultStore, settings Settings) *Service {
	if settings.HeatmapTopK <= 0 {
		settings.HeatmapTopK = views.DefaultHeatmapTopK
	}
	if settings.RadarTopN <= 0 {
		settings.RadarTopN = views.DefaultRadarTopN
	}
	if settings.URLs == nil {
		settings.URLs = catalog.NewURLResolver("", nil)
	}
	return &Service{store: store, settings: settings}
}

// Store returns the underlying store.
func (s *Service) Store() ResultStore { return s.store }

// Settings returns the effective settings.
func (s *Service) Settings() Settings { return s.settings }

// Resolve applies defaults to q and validates it against the catalog. An
// unknown task yields ErrUnknownTask, a bad order ranking.ErrInvalidOrder
// and a selected model outside the catalog ErrUnknownModel. A metric no
// model reports is accepted and ranks nobody. Without a sort column the
// table is sorted by the selected metric, descending unless SortOrder is set.
func (s *Service) Resolve(agg *results.Aggregate, q Query) (Selection, error) {
	cat := s.store.Catalog()

	taskID := catalog.TaskID(q.Task)
	if taskID == "" {
		taskID = cat.DefaultTask()
	}
	task, ok := cat.Task(taskID)
	if !ok {
		return Selection{}, fmt.Errorf("%w %q", ErrUnknownTask, q.Task)
	}

	order, err := ranking.ParseOrder(q.Order)
	if err != nil {
		return Selection{}, err
	}
	sortOrder, err := ranking.ParseOrder(q.SortOrder)
	if err != nil {
		return Selection{}, err
	}

	sel := Selection{
		Task:    task,
		Order:   order,
		Metrics: ranking.AvailableMetrics(agg, task.ID),
		Metric:  q.Metric,
		Sort:    ranking.ColumnSort{Column: q.Sort, Order: sortOrder},
	}
	if sel.Metric == "" {
		sel.Metric = ranking.DefaultMetric(sel.Metrics)
	}
	if sel.Sort.Column == "" {
		sel.Sort.Column = sel.Metric
	}
	if q.Model != "" {
		m := catalog.ModelID(q.Model)
		if !cat.HasModel(m) {
			return Selection{}, fmt.Errorf("%w %q", ErrUnknownModel, q.Model)
		}
		sel.Model = m
	}
	return sel, nil
}

// Dashboard is every panel of the dashboard for one selection.
type Dashboard struct {
	Generation   string                    `json:"generation"`
	Selection    Selection                 `json:"selection"`
	Tasks        []catalog.Task            `json:"tasks"`
	Entries      []ranking.Entry           `json:"entries"`
	Summary      ranking.Summary           `json:"summary"`
	Table        views.Table               `json:"table"`
	Distribution []views.DistributionPoint `json:"distribution"`
	Bars         []views.Bar               `json:"bars"`
	Heatmap      views.Heatmap             `json:"heatmap"`
	Radar        views.Radar               `json:"radar"`
	Detail       *views.ModelDetail        `json:"detail,omitempty"`
	Report       results.LoadReport        `json:"report"`
}

// Dashboard computes all panels for q.
func (s *Service) Dashboard(ctx context.Context, q Query) (*Dashboard, error) {
	agg, err := s.store.Aggregate(ctx)
	if err != nil {
		return nil, err
	}
	sel, err := s.Resolve(agg, q)
	if err != nil {
		return nil, err
	}
	cat := s.store.Catalog()

	entries := ranking.Rank(agg, sel.Task.ID, sel.Metric, sel.Order)
	d := &Dashboard{
		Generation:   agg.Generation(),
		Selection:    sel,
		Tasks:        cat.Tasks,
		Entries:      entries,
		Summary:      ranking.Summarize(entries),
		Table:        views.BuildTable(agg, sel.Task.ID, entries, sel.Sort),
		Distribution: views.Distribution(entries),
		Bars:         views.Bars(entries),
		Heatmap:      views.BuildHeatmap(agg, cat, entries, s.settings.HeatmapTopK),
		Radar:        views.BuildRadar(agg, sel.Task.ID, s.settings.RadarTopN),
		Report:       agg.Report(),
	}
	if sel.Model != "" {
		if detail, ok := views.BuildModelDetail(agg, cat, s.settings.URLs, sel.Model); ok {
			d.Detail = &detail
		}
	}
	return d, nil
}

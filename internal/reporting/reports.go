package reporting

import (
	"fmt"
	"strconv"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/ranking"
	"github.com/bengali-mteb/leaderboard/internal/results"
	"github.com/bengali-mteb/leaderboard/internal/views"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// scorePrecision is the number of decimals printed for a score.
const scorePrecision = 4

var printer = message.NewPrinter(language.English)

// RankingData is the JSON form of a ranking report.
type RankingData struct {
	Task    catalog.TaskID  `json:"task"`
	Metric  string          `json:"metric"`
	Order   ranking.Order   `json:"order"`
	Entries []ranking.Entry `json:"entries"`
	Summary ranking.Summary `json:"summary"`
}

// RankingReport lists the rows of a leaderboard table with its summary.
func RankingReport(task catalog.Task, metric string, order ranking.Order, tbl views.Table, entries []ranking.Entry, sum ranking.Summary) Report {
	r := Report{
		Title:  fmt.Sprintf("%s: %s (%s)", task.Name, metric, order),
		Header: append([]string{"Rank", "Model"}, tbl.Columns...),
		Notes:  SummaryNotes(sum),
		Data: RankingData{
			Task:    task.ID,
			Metric:  metric,
			Order:   order,
			Entries: entries,
			Summary: sum,
		},
	}
	for _, row := range tbl.Rows {
		cells := []string{rankCell(row.Rank, row.Medal), row.Name}
		for _, v := range row.Values {
			cells = append(cells, v.Format(scorePrecision))
		}
		r.Rows = append(r.Rows, cells)
	}
	if len(tbl.Rows) == 0 {
		r.Notes = append([]string{fmt.Sprintf("No model has a %s score for %s.", metric, task.Name)}, r.Notes...)
	}
	return r
}

func rankCell(rank int, medal string) string {
	if medal == "" {
		return strconv.Itoa(rank)
	}
	return strconv.Itoa(rank) + " " + medal
}

// SummaryNotes renders the summary cards as lines.
func SummaryNotes(sum ranking.Summary) []string {
	notes := []string{fmt.Sprintf("Models ranked: %d", sum.Count)}
	if !sum.Best.Valid {
		return append(notes, "Best score: N/A", "Average score: N/A")
	}
	notes = append(notes,
		fmt.Sprintf("Best score: %s (%s)", sum.Best.Format(scorePrecision), InterpretScore(sum.Best.Value)),
		fmt.Sprintf("Average score: %s", sum.Average.Format(scorePrecision)),
		fmt.Sprintf("Median: %s  Min: %s  Std dev: %s",
			sum.Median.Format(scorePrecision), sum.Min.Format(scorePrecision), sum.StdDev.Format(scorePrecision)),
	)
	if iv := sum.Interval; iv != nil && iv.Resamples > 0 {
		notes = append(notes, fmt.Sprintf("%.0f%% CI of average: [%.4f, %.4f]", iv.Level*100, iv.Lower, iv.Upper))
	}
	return notes
}

// DistributionReport lists the distribution points.
func DistributionReport(task catalog.Task, metric string, points []views.DistributionPoint) Report {
	r := Report{
		Title:  fmt.Sprintf("%s: %s distribution", task.Name, metric),
		Header: []string{"Position", "Model", "Score"},
		Data:   points,
	}
	for _, p := range points {
		r.Rows = append(r.Rows, []string{strconv.Itoa(p.Position), p.Name, strconv.FormatFloat(p.Score, 'f', scorePrecision, 64)})
	}
	return r
}

// HeatmapReport lays out the heatmap with one column per task.
func HeatmapReport(h views.Heatmap) Report {
	r := Report{Title: "main_score across tasks", Header: []string{"Model"}, Data: h}
	for _, t := range h.Tasks {
		r.Header = append(r.Header, t.Name)
	}
	for _, row := range h.Rows {
		cells := []string{row.Name}
		for _, c := range row.Cells {
			cells = append(cells, c.Score.Format(scorePrecision))
		}
		r.Rows = append(r.Rows, cells)
	}
	return r
}

// RadarReport lays out the radar comparison with one column per metric.
func RadarReport(task catalog.Task, radar views.Radar) Report {
	r := Report{
		Title:  fmt.Sprintf("%s: top models across metrics", task.Name),
		Header: append([]string{"Model"}, radar.Metrics...),
		Data:   radar,
	}
	for _, s := range radar.Series {
		cells := []string{s.Name}
		for _, v := range s.Values {
			cells = append(cells, v.Format(scorePrecision))
		}
		r.Rows = append(r.Rows, cells)
	}
	return r
}

// ModelReport lists the fixed metrics of a model on every task.
func ModelReport(d views.ModelDetail) Report {
	r := Report{
		Title:  d.Name,
		Header: append([]string{"Task"}, views.DetailMetrics...),
		Data:   d,
	}
	r.Header = append(r.Header, "Status")
	for _, t := range d.Tasks {
		cells := []string{t.Task.Name}
		for _, mv := range t.Fixed {
			cells = append(cells, mv.Score.Format(scorePrecision))
		}
		cells = append(cells, t.Status())
		r.Rows = append(r.Rows, cells)
	}
	r.Notes = append(r.Notes, d.URL, fmt.Sprintf("Results available for %d of %d tasks", d.Available, len(d.Tasks)))
	for _, t := range d.Tasks {
		if t.Info == nil {
			continue
		}
		note := t.Task.Name + ":"
		if t.Info.MTEBVersion != "" {
			note += " mteb " + t.Info.MTEBVersion
		}
		if t.Info.DatasetRevision != "" {
			note += " revision " + t.Info.DatasetRevision
		}
		if v, ok := t.Info.EvaluationTime.Get(); ok {
			note += printer.Sprintf(" evaluated in %.1f s", v)
		}
		r.Notes = append(r.Notes, note)
	}
	return r
}

// ComparisonReport lists a comparison with a delta and gain column.
func ComparisonReport(c views.Comparison) Report {
	r := Report{Title: fmt.Sprintf("%s comparison", c.Metric), Header: []string{"Task"}, Data: c}
	for _, m := range c.Models {
		r.Header = append(r.Header, m.ShortName)
	}
	r.Header = append(r.Header, "Delta", "Gain")
	for _, row := range c.Rows {
		cells := []string{row.Task.Name}
		for _, s := range row.Scores {
			cells = append(cells, naFormat(s))
		}
		cells = append(cells, signed(row.Delta), naFormat(row.Gain))
		r.Rows = append(r.Rows, cells)
	}
	if iv := c.Interval; iv != nil {
		verdict := "not significant"
		if c.Significant {
			verdict = "significant"
		}
		r.Notes = append(r.Notes, fmt.Sprintf("Mean delta %+.4f, %.0f%% CI [%.4f, %.4f], %s",
			iv.Mean, iv.Level*100, iv.Lower, iv.Upper, verdict))
	} else {
		r.Notes = append(r.Notes, "No task has scores for both the first and last model.")
	}
	return r
}

func naFormat(s results.Score) string {
	if !s.Valid {
		return "n/a"
	}
	return s.Format(scorePrecision)
}

func signed(s results.Score) string {
	if !s.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%+.4f", s.Value)
}

// CatalogEntry is one model in the catalog report.
type CatalogEntry struct {
	views.ModelRef
	URL string `json:"url"`
}

// CatalogData is the JSON form of the catalog report.
type CatalogData struct {
	Tasks  []catalog.Task `json:"tasks"`
	Models []CatalogEntry `json:"models"`
	Note   string         `json:"note"`
}

// CatalogReport lists the known models with their URLs, and the tasks as
// notes.
func CatalogReport(cat *catalog.Catalog, urls *catalog.URLResolver) Report {
	data := CatalogData{Tasks: cat.Tasks, Note: catalog.MTEBNote}
	r := Report{Title: "Models", Header: []string{"Model", "Short name", "URL"}}
	for _, m := range cat.Models {
		e := CatalogEntry{ModelRef: views.Ref(m), URL: urls.ModelURL(m)}
		data.Models = append(data.Models, e)
		r.Rows = append(r.Rows, []string{e.Name, e.ShortName, e.URL})
	}
	for _, t := range cat.Tasks {
		r.Notes = append(r.Notes, fmt.Sprintf("%s (%s), primary metric %s", t.Name, t.ID, t.PrimaryMetric))
	}
	r.Notes = append(r.Notes, catalog.MTEBNote)
	r.Data = data
	return r
}

package views

import (
	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/ranking"
	"github.com/bengali-mteb/leaderboard/internal/results"
)

var medals = [...]string{"🥇", "🥈", "🥉"}

// Medal returns the marker for a top-three rank, or "".
func Medal(rank int) string {
	if rank < 1 || rank > len(medals) {
		return ""
	}
	return medals[rank-1]
}

// TableRow is one model of the leaderboard table.
type TableRow struct {
	ModelRef
	Rank   int             `json:"rank"`
	Medal  string          `json:"medal,omitempty"`
	Values []results.Score `json:"values"`
}

// Table is the full leaderboard table. Values of each row follow Columns.
type Table struct {
	Task    catalog.TaskID     `json:"task"`
	Columns []string           `json:"columns"`
	Sort    ranking.ColumnSort `json:"sort"`
	Rows    []TableRow         `json:"rows"`
}

// BuildTable lays out the rows of a primary ranking. Columns are the metrics
// of the first row's record in artifact order. When sort names a column the
// rows are re-sorted by it without dropping any.
func BuildTable(agg *results.Aggregate, task catalog.TaskID, entries []ranking.Entry, sort ranking.ColumnSort) Table {
	t := Table{Task: task, Sort: sort}
	if len(entries) == 0 {
		return t
	}
	t.Columns = agg.Record(entries[0].Model, task).Metrics()

	rows := entries
	if sort.Column != "" {
		rows = ranking.Resort(agg, task, entries, sort.Column, sort.Order)
	}

	t.Rows = make([]TableRow, len(rows))
	for i, e := range rows {
		rec := agg.Record(e.Model, task)
		values := make([]results.Score, len(t.Columns))
		for j, c := range t.Columns {
			values[j] = rec.Get(c)
		}
		t.Rows[i] = TableRow{
			ModelRef: Ref(e.Model),
			Rank:     e.Rank,
			Medal:    Medal(e.Rank),
			Values:   values,
		}
	}
	return t
}

// Package ranking orders models by a task metric.
//
// Two policies exist for models without a value. The primary leaderboard
// (Rank) leaves them out. The interactive table (Resort) keeps its row set
// fixed and sorts a missing value as negative infinity, so such rows sink to
// the bottom in descending order and rise to the top in ascending order.
package ranking

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/results"
)

// ErrInvalidOrder is returned by ParseOrder for anything but asc or desc.
var ErrInvalidOrder = errors.New("invalid sort order")

// Order is a sort direction.
type Order string

const (
	// Desc ranks higher scores first.
	Desc Order = "desc"
	// Asc ranks lower scores first.
	Asc Order = "asc"
)

// ParseOrder parses "asc" or "desc", case-insensitively. The empty string
// means Desc.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Desc):
		return Desc, nil
	case string(Asc):
		return Asc, nil
	default:
		return "", fmt.Errorf("%w %q: want asc or desc", ErrInvalidOrder, s)
	}
}

// Toggle returns the opposite direction.
func (o Order) Toggle() Order {
	if o == Asc {
		return Desc
	}
	return Asc
}

func (o Order) before(a, b float64) bool {
	if o == Asc {
		return a < b
	}
	return a > b
}

// Entry is one ranked model.
type Entry struct {
	Model     catalog.ModelID `json:"model"`
	Name      string          `json:"name"`
	ShortName string          `json:"shortName"`
	Score     results.Score   `json:"score"`
	// Rank is the 1-based position in the ranking.
	Rank int `json:"rank"`
}

func newEntry(m catalog.ModelID, s results.Score) Entry {
	return Entry{Model: m, Name: m.DisplayName(), ShortName: m.ShortName(), Score: s}
}

// Rank returns the models with a numeric value of metric for task, ordered
// by that value. Ties keep the aggregate's model order. Any order other than
// Asc ranks descending.
func Rank(agg *results.Aggregate, task catalog.TaskID, metric string, order Order) []Entry {
	if agg == nil {
		return nil
	}
	var entries []Entry
	for _, m := range agg.Models() {
		s := agg.Score(m, task, metric)
		if !s.Valid {
			continue
		}
		entries = append(entries, newEntry(m, s))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return order.before(entries[i].Score.Value, entries[j].Score.Value)
	})
	renumber(entries)
	return entries
}

// Resort orders the models of rows by metric for task without dropping any
// row. A model missing metric sorts as negative infinity. The returned
// entries carry the metric's score, possibly absent, and fresh ranks.
func Resort(agg *results.Aggregate, task catalog.TaskID, rows []Entry, metric string, order Order) []Entry {
	out := make([]Entry, len(rows))
	keys := make([]float64, len(rows))
	for i, r := range rows {
		s := agg.Score(r.Model, task, metric)
		out[i] = newEntry(r.Model, s)
		keys[i] = math.Inf(-1)
		if s.Valid {
			keys[i] = s.Value
		}
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return order.before(keys[idx[i]], keys[idx[j]])
	})

	sorted := make([]Entry, len(out))
	for pos, i := range idx {
		sorted[pos] = out[i]
	}
	renumber(sorted)
	return sorted
}

func renumber(entries []Entry) {
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// ColumnSort is the sort state of the leaderboard table.
type ColumnSort struct {
	Column string `json:"column"`
	Order  Order  `json:"order"`
}

// Click returns the state after a click on column: the current column flips
// direction, a new column starts descending.
func (c ColumnSort) Click(column string) ColumnSort {
	if column == c.Column {
		return ColumnSort{Column: column, Order: c.Order.Toggle()}
	}
	return ColumnSort{Column: column, Order: Desc}
}

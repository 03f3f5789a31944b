// Package views derives the data behind each dashboard panel from an
// aggregate and its rankings. Every builder is a pure function of its inputs.
package views

import (
	"sort"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/ranking"
)

// ModelRef names a model for display.
type ModelRef struct {
	Model     catalog.ModelID `json:"model"`
	Name      string          `json:"name"`
	ShortName string          `json:"shortName"`
}

// Ref builds the display reference of m.
func Ref(m catalog.ModelID) ModelRef {
	return ModelRef{Model: m, Name: m.DisplayName(), ShortName: m.ShortName()}
}

// DistributionPoint is one point of the score distribution plot.
type DistributionPoint struct {
	ModelRef
	// Position is 1-based and unrelated to the entry's rank.
	Position int     `json:"position"`
	Score    float64 `json:"score"`
}

// Distribution orders a ranking by descending score whatever its order was.
// Entries without a score are skipped.
func Distribution(entries []ranking.Entry) []DistributionPoint {
	scored := make([]ranking.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Score.Valid {
			scored = append(scored, e)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score.Value > scored[j].Score.Value
	})

	points := make([]DistributionPoint, len(scored))
	for i, e := range scored {
		points[i] = DistributionPoint{
			ModelRef: Ref(e.Model),
			Position: i + 1,
			Score:    e.Score.Value,
		}
	}
	return points
}

// Bar is one bar of the metric bar chart.
type Bar struct {
	ModelRef
	Rank  int     `json:"rank"`
	Score float64 `json:"score"`
}

// Bars keeps the ranking order and labels each bar with the short name.
func Bars(entries []ranking.Entry) []Bar {
	bars := make([]Bar, 0, len(entries))
	for _, e := range entries {
		if !e.Score.Valid {
			continue
		}
		bars = append(bars, Bar{ModelRef: Ref(e.Model), Rank: e.Rank, Score: e.Score.Value})
	}
	return bars
}

// ToggleSelection returns the highlighted model after clicking clicked:
// clicking the selected model clears the selection.
func ToggleSelection(current, clicked catalog.ModelID) catalog.ModelID {
	if current == clicked {
		return ""
	}
	return clicked
}

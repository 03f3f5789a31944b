package reporting

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/ranking"
	"github.com/bengali-mteb/leaderboard/internal/results"
	"github.com/bengali-mteb/leaderboard/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() Report {
	return Report{
		Title:  "Scores",
		Header: []string{"Rank", "Model", "main_score"},
		Rows: [][]string{
			{"1 🥇", "alpha/modelA", "0.9100"},
			{"2 🥈", "beta/b|c", results.Placeholder},
		},
		Notes: []string{"Models ranked: 2"},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":         FormatTable,
		"TABLE":    FormatTable,
		"json":     FormatJSON,
		"csv":      FormatCSV,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteTableAlignsWideCells(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Scores")
	assert.Contains(t, out, "Models ranked: 2")

	lines := strings.Split(out, "\n")
	var row1, row2 string
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "1 "):
			row1 = l
		case strings.HasPrefix(l, "2 "):
			row2 = l
		}
	}
	require.NotEmpty(t, row1)
	require.NotEmpty(t, row2)
	// the model column starts at the same display column in both rows
	assert.Equal(t, strings.Index(row1, "alpha"), strings.Index(row2, "beta"))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleReport()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Rank", "Model", "main_score"}, records[0])
	assert.Equal(t, "beta/b|c", records[2][1])
}

func TestWriteMarkdownEscapesPipes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatMarkdown, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "## Scores")
	assert.Contains(t, out, "| Rank | Model | main_score |")
	assert.Contains(t, out, "| --- | --- | --- |")
	assert.Contains(t, out, `beta/b\|c`)
	assert.Contains(t, out, "- Models ranked: 2")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleReport()))
	var rows []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "alpha/modelA", rows[0]["Model"])

	buf.Reset()
	r := sampleReport()
	r.Data = map[string]int{"count": 2}
	require.NoError(t, Write(&buf, FormatJSON, r))
	assert.JSONEq(t, `{"count": 2}`, buf.String())
}

func TestRankingReportEmpty(t *testing.T) {
	task := catalog.Task{ID: "T1", Name: "Task one"}
	r := RankingReport(task, "f1", ranking.Desc, views.Table{}, nil, ranking.Summarize(nil))

	assert.Empty(t, r.Rows)
	assert.Contains(t, r.Notes, "Best score: N/A")
	assert.Contains(t, r.Notes, "Average score: N/A")
	assert.Contains(t, r.Notes[0], "No model has a f1 score")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, r))
	assert.Contains(t, buf.String(), `"best": null`)
}

func TestRankingReportRows(t *testing.T) {
	b := results.NewBuilder([]catalog.ModelID{"alpha__modelA", "beta__modelB"})
	b.Put("alpha__modelA", "T1", &results.TaskResult{Test: results.NewScoreRecord().
		Set("main_score", results.Some(0.91)).Set("accuracy", results.Some(0.9))})
	agg := b.Build()

	entries := ranking.Rank(agg, "T1", "main_score", ranking.Desc)
	tbl := views.BuildTable(agg, "T1", entries, ranking.ColumnSort{})
	r := RankingReport(catalog.Task{ID: "T1", Name: "Task one"}, "main_score", ranking.Desc, tbl, entries, ranking.Summarize(entries))

	assert.Equal(t, []string{"Rank", "Model", "main_score", "accuracy"}, r.Header)
	require.Len(t, r.Rows, 1)
	assert.Equal(t, []string{"1 🥇", "alpha/modelA", "0.9100", "0.9000"}, r.Rows[0])
	assert.Contains(t, r.Notes, "Best score: 0.9100 (Excellent (>90%))")
}

func TestComparisonReportNA(t *testing.T) {
	c := views.Comparison{
		Metric: "main_score",
		Models: []views.ModelRef{views.Ref("a__x"), views.Ref("b__y")},
		Rows: []views.ComparisonRow{{
			Task:   views.TaskRef{ID: "T1", Name: "Task one"},
			Scores: []results.Score{results.Some(0.5), results.Absent},
		}},
	}
	r := ComparisonReport(c)
	assert.Equal(t, []string{"Task", "x", "y", "Delta", "Gain"}, r.Header)
	assert.Equal(t, []string{"Task one", "0.5000", "n/a", "n/a", "n/a"}, r.Rows[0])
	assert.Contains(t, r.Notes[0], "No task has scores")
}

func TestCatalogReport(t *testing.T) {
	r := CatalogReport(catalog.Default(), catalog.NewURLResolver("", nil))
	require.Len(t, r.Rows, len(catalog.Default().Models))
	assert.Equal(t, "https://huggingface.co/Cohere/Cohere-embed-multilingual-v3.0", r.Rows[0][2])
	assert.Equal(t, catalog.MTEBNote, r.Notes[len(r.Notes)-1])
}

func TestModelReportGroupsEvaluationTime(t *testing.T) {
	d := views.ModelDetail{
		ModelRef: views.Ref("a__x"),
		Tasks: []views.TaskDetail{{
			Task:      views.TaskRef{ID: "T1", Name: "Task one"},
			Available: true,
			Info:      &views.ArtifactInfo{MTEBVersion: "1.12.0", EvaluationTime: results.Some(1234.56)},
		}},
		Available: 1,
	}
	r := ModelReport(d)
	assert.Equal(t, []string{"Task", "main_score", "accuracy", "f1", "Status"}, r.Header)
	assert.Contains(t, r.Notes, "Task one: mteb 1.12.0 evaluated in 1,234.6 s")
}

func TestInterpretScore(t *testing.T) {
	assert.Equal(t, "Excellent (>90%)", InterpretScore(0.95))
	assert.Equal(t, "Good (70-90%)", InterpretScore(0.7))
	assert.Equal(t, "Fair (50-70%)", InterpretScore(0.55))
	assert.Equal(t, "Weak (<50%)", InterpretScore(0.1))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
}

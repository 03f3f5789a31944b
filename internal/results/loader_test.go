package results

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/bengali-mteb/leaderboard/internal/artifact"
	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Models: []catalog.ModelID{"alpha__modelA", "beta__modelB", "gamma__modelC"},
		Tasks: []catalog.Task{
			{ID: "T1", Name: "Task one"},
			{ID: "T2", Name: "Task two"},
		},
	}
}

// mapSource serves artifacts from memory; missing paths are not found.
type mapSource struct {
	mu    sync.Mutex
	files map[string]string
	calls int
}

func (s *mapSource) Fetch(ctx context.Context, p string) ([]byte, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := s.files[p]
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, artifact.ErrNotFound)
	}
	return []byte(data), nil
}

func TestArtifactPath(t *testing.T) {
	assert.Equal(t, "alpha__modelA/T1.json", ArtifactPath("alpha__modelA", "T1"))
}

func TestLoaderLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := artifact.NewMockSource(ctrl)

	src.EXPECT().Fetch(gomock.Any(), "alpha__modelA/T1.json").
		Return([]byte(`{"scores": {"test": [{"main_score": 0.91, "accuracy": 0.9,}]}}`), nil)
	src.EXPECT().Fetch(gomock.Any(), "alpha__modelA/T2.json").
		Return(nil, fmt.Errorf("open: %w", artifact.ErrNotFound))
	src.EXPECT().Fetch(gomock.Any(), "beta__modelB/T1.json").
		Return(nil, errors.New("connection reset"))
	src.EXPECT().Fetch(gomock.Any(), "beta__modelB/T2.json").
		Return([]byte(`{"scores": {"test": [`), nil)

	l := NewLoader(src, WithLogger(quietLogger()))

	ok := l.Load(context.Background(), "alpha__modelA", "T1")
	assert.Equal(t, StatusLoaded, ok.Status)
	assert.NoError(t, ok.Err)
	assert.Equal(t, Some(0.91), ok.Result.Record().Get("main_score"))

	missing := l.Load(context.Background(), "alpha__modelA", "T2")
	assert.Equal(t, StatusAbsent, missing.Status)
	assert.Nil(t, missing.Result)
	assert.ErrorIs(t, missing.Err, artifact.ErrNotFound)

	failed := l.Load(context.Background(), "beta__modelB", "T1")
	assert.Equal(t, StatusAbsent, failed.Status)
	assert.Nil(t, failed.Result)

	bad := l.Load(context.Background(), "beta__modelB", "T2")
	assert.Equal(t, StatusMalformed, bad.Status)
	assert.Nil(t, bad.Result)
	assert.ErrorIs(t, bad.Err, ErrMalformed)
}

func TestLoaderAppliesFetchTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := artifact.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ string) ([]byte, error) {
		_, ok := ctx.Deadline()
		assert.True(t, ok, "fetch context should carry a deadline")
		return nil, artifact.ErrNotFound
	})

	out := NewLoader(src, WithLogger(quietLogger())).Load(context.Background(), "m", "t")
	assert.Equal(t, StatusAbsent, out.Status)
}

func TestBuildAllTotality(t *testing.T) {
	cat := testCatalog()
	src := &mapSource{files: map[string]string{
		"alpha__modelA/T1.json": `{"scores": {"test": [{"main_score": 0.91, "accuracy": 0.9}]}}`,
		"beta__modelB/T2.json":  `not json`,
	}}

	agg, err := NewLoader(src, WithLogger(quietLogger())).BuildAll(context.Background(), cat)
	require.NoError(t, err)

	assert.Equal(t, 3, agg.Len())
	assert.Equal(t, cat.Models, agg.Models())
	for _, m := range cat.Models {
		assert.True(t, agg.HasModel(m), m)
	}
	assert.Equal(t, 6, src.calls)

	assert.Equal(t, Some(0.91), agg.Score("alpha__modelA", "T1", "main_score"))
	assert.Equal(t, Absent, agg.Score("alpha__modelA", "T2", "main_score"))
	assert.Equal(t, Absent, agg.Score("beta__modelB", "T2", "main_score"))
	assert.Empty(t, agg.Tasks("gamma__modelC"))
	assert.Equal(t, []catalog.TaskID{"T1"}, agg.Tasks("alpha__modelA"))

	report := agg.Report()
	assert.Equal(t, 6, report.Pairs)
	assert.Equal(t, 1, report.Loaded)
	assert.Equal(t, 4, report.Absent)
	assert.Equal(t, 1, report.Malformed)
	require.Len(t, report.Problems, 1)
	assert.Equal(t, catalog.ModelID("beta__modelB"), report.Problems[0].Model)
	assert.Equal(t, StatusMalformed, report.Problems[0].Status)
	assert.NotEmpty(t, agg.Generation())
	assert.False(t, agg.BuiltAt().IsZero())
}

func TestBuildAllEverythingFails(t *testing.T) {
	src := &mapSource{files: map[string]string{}}
	agg, err := NewLoader(src, WithLogger(quietLogger())).BuildAll(context.Background(), testCatalog())
	require.NoError(t, err)
	assert.Equal(t, 3, agg.Len())
	for _, m := range agg.Models() {
		assert.Empty(t, agg.Tasks(m))
	}
	assert.Empty(t, agg.Report().Problems)
}

func TestBuildAllSequentialMatchesConcurrent(t *testing.T) {
	cat := testCatalog()
	files := map[string]string{
		"alpha__modelA/T1.json": `{"scores": {"test": [{"main_score": 0.91}]}}`,
		"alpha__modelA/T2.json": `{"scores": {"test": [{"main_score": 0.42, "f1": NaN}]}}`,
		"beta__modelB/T1.json":  `{"scores": {"test": [{"main_score": 0.8,}]}}`,
		"gamma__modelC/T2.json": `{"scores": {"test": [{"main_score": 0.5}]}}`,
	}

	seq, err := NewLoader(&mapSource{files: files}, WithWorkers(1), WithLogger(quietLogger())).
		BuildAll(context.Background(), cat)
	require.NoError(t, err)
	par, err := NewLoader(&mapSource{files: files}, WithWorkers(16), WithLogger(quietLogger())).
		BuildAll(context.Background(), cat)
	require.NoError(t, err)

	assert.NotEqual(t, seq.Generation(), par.Generation())
	assert.Equal(t, seq.Models(), par.Models())
	for _, m := range cat.Models {
		assert.Equal(t, seq.Tasks(m), par.Tasks(m))
		for _, task := range cat.TaskIDs() {
			for _, metric := range []string{"main_score", "f1"} {
				assert.Equal(t, seq.Score(m, task, metric), par.Score(m, task, metric))
			}
		}
	}
	assert.Equal(t, seq.Report(), par.Report())
}

func TestBuildAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg, err := NewLoader(&mapSource{files: map[string]string{}}, WithLogger(quietLogger())).
		BuildAll(ctx, testCatalog())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, agg)
}

func TestBuildAllInvalidCatalog(t *testing.T) {
	cat := &catalog.Catalog{
		Models: []catalog.ModelID{"a__b", "a__b"},
		Tasks:  []catalog.Task{{ID: "T1"}},
	}
	agg, err := NewLoader(&mapSource{}, WithLogger(quietLogger())).BuildAll(context.Background(), cat)
	require.Error(t, err)
	assert.Nil(t, agg)
}

func TestBuilderIgnoresUnknownModels(t *testing.T) {
	b := NewBuilder([]catalog.ModelID{"a__x"})
	b.Put("b__y", "T1", &TaskResult{Test: NewScoreRecord().Set("main_score", Some(1))})
	b.Put("a__x", "T1", &TaskResult{Test: NewScoreRecord().Set("main_score", Some(0.3))})
	agg := b.Build()

	assert.False(t, agg.HasModel("b__y"))
	assert.Equal(t, Some(0.3), agg.Score("a__x", "T1", "main_score"))
	assert.Equal(t, 1, agg.Report().Pairs)
}

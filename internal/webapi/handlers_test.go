package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/ranking"
	"github.com/bengali-mteb/leaderboard/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Models: []catalog.ModelID{"alpha__modelA", "beta__modelB", "cohere__embed-multilingual-v3.0"},
		Tasks: []catalog.Task{
			{ID: "T1", Name: "Task one", PrimaryMetric: "main_score"},
			{ID: "T2", Name: "Task two", PrimaryMetric: "f1"},
		},
	}
}

func scores(kv ...any) *results.ScoreRecord {
	rec := results.NewScoreRecord()
	for i := 0; i < len(kv); i += 2 {
		rec.Set(kv[i].(string), results.Some(kv[i+1].(float64)))
	}
	return rec
}

// fakeBuilder builds a fixed aggregate, or fails with err.
type fakeBuilder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (b *fakeBuilder) BuildAll(_ context.Context, cat *catalog.Catalog) (*results.Aggregate, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	bld := results.NewBuilder(cat.Models)
	bld.Put("alpha__modelA", "T1", &results.TaskResult{Test: scores("main_score", 0.91, "accuracy", 0.9)})
	bld.Put("beta__modelB", "T2", &results.TaskResult{Test: scores("main_score", 0.5, "f1", 0.4)})
	bld.Add(results.Outcome{Model: "cohere__embed-multilingual-v3.0", Task: "T1", Status: results.StatusMalformed, Err: errors.New("bad json")})
	return bld.Build(), nil
}

func newTestServer(t *testing.T, b Builder) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	RegisterRoutes(mux, NewService(NewAggregateStore(testCatalog(), b), Settings{}))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func TestHandleHealthDoesNotLoad(t *testing.T) {
	b := &fakeBuilder{}
	srv := newTestServer(t, b)

	var health HealthResponse
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/health", &health))
	assert.Equal(t, "loading", health.Status)
	assert.Equal(t, 0, b.calls)

	var status StatusResponse
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/status", &status))
	assert.Equal(t, 1, b.calls)

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/health", &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, status.Generation, health.Generation)
	require.NotNil(t, health.LoadedAt)
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t, &fakeBuilder{})

	var status StatusResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/status", &status))
	assert.Equal(t, 3, status.Pairs)
	assert.Equal(t, 2, status.Loaded)
	assert.Equal(t, 1, status.Malformed)
	require.Len(t, status.Problems, 1)
	assert.Equal(t, "bad json", status.Problems[0].Error)
}

func TestHandleCatalog(t *testing.T) {
	srv := newTestServer(t, &fakeBuilder{err: errors.New("offline")})

	var resp CatalogResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/catalog", &resp))
	require.Len(t, resp.Models, 3)
	assert.Equal(t, "alpha/modelA", resp.Models[0].Name)
	assert.Equal(t, "https://huggingface.co/alpha/modelA", resp.Models[0].URL)
	assert.Equal(t, "https://huggingface.co/Cohere/Cohere-embed-multilingual-v3.0", resp.Models[2].URL)
	assert.Len(t, resp.Tasks, 2)
	assert.Equal(t, catalog.MTEBNote, resp.Note)
}

func TestHandleTaskMetrics(t *testing.T) {
	srv := newTestServer(t, &fakeBuilder{})

	var resp MetricsResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/tasks/T1/metrics", &resp))
	assert.Equal(t, []string{"accuracy", "main_score"}, resp.Metrics)
	assert.Equal(t, "main_score", resp.Default)

	var errResp ErrorResponse
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/tasks/nope/metrics", &errResp))
	assert.Equal(t, http.StatusNotFound, errResp.Code)
}

func TestHandleLeaderboard(t *testing.T) {
	srv := newTestServer(t, &fakeBuilder{})

	var resp LeaderboardResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/leaderboard?task=T1&metric=main_score&order=desc", &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, catalog.ModelID("alpha__modelA"), resp.Entries[0].Model)
	assert.Equal(t, 1, resp.Entries[0].Rank)
	assert.Equal(t, results.Some(0.91), resp.Entries[0].Score)
	assert.Equal(t, 1, resp.Summary.Count)

	// defaults: first task, main_score, desc
	var def LeaderboardResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/leaderboard", &def))
	assert.Equal(t, catalog.TaskID("T1"), def.Task)
	assert.Equal(t, "main_score", def.Metric)
	assert.Equal(t, "desc", string(def.Order))
}

func TestHandleLeaderboardEmptyMetric(t *testing.T) {
	srv := newTestServer(t, &fakeBuilder{})

	resp, err := http.Get(srv.URL + "/api/leaderboard?task=T1&metric=f1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.Equal(t, []any{}, raw["entries"])
	summary := raw["summary"].(map[string]any)
	assert.Nil(t, summary["best"])
	assert.Nil(t, summary["average"])
	assert.Equal(t, float64(0), summary["count"])
}

func TestHandleLeaderboardBadInput(t *testing.T) {
	srv := newTestServer(t, &fakeBuilder{})

	var errResp ErrorResponse
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/leaderboard?order=sideways", &errResp))
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/leaderboard?task=T9", &errResp))
}

func TestHandleTable(t *testing.T) {
	srv := newTestServer(t, &fakeBuilder{})

	var resp struct {
		Columns []string `json:"columns"`
		Rows    []struct {
			Model catalog.ModelID `json:"model"`
			Medal string          `json:"medal"`
		} `json:"rows"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/table?task=T1&sort=accuracy&order=asc", &resp))
	assert.Equal(t, []string{"main_score", "accuracy"}, resp.Columns)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "🥇", resp.Rows[0].Medal)
}

func TestHandleDistributionAndHeatmap(t *testing.T) {
	srv := newTestServer(t, &fakeBuilder{})

	var dist DistributionResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/distribution?task=T2&metric=f1", &dist))
	require.Len(t, dist.Points, 1)
	assert.Equal(t, 1, dist.Points[0].Position)

	var heat struct {
		Rows []struct {
			Model catalog.ModelID `json:"model"`
			Cells []struct {
				NoData bool `json:"noData"`
			} `json:"cells"`
		} `json:"rows"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/heatmap?task=T2&metric=main_score&k=1", &heat))
	require.Len(t, heat.Rows, 1)
	assert.Equal(t, catalog.ModelID("beta__modelB"), heat.Rows[0].Model)
	assert.True(t, heat.Rows[0].Cells[0].NoData)
	assert.False(t, heat.Rows[0].Cells[1].NoData)

	var errResp ErrorResponse
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/heatmap?k=0", &errResp))
}

func TestHandleRadar(t *testing.T) {
	srv := newTestServer(t, &fakeBuilder{})

	var radar struct {
		Metrics []string `json:"metrics"`
		Series  []struct {
			Model  catalog.ModelID `json:"model"`
			Values []*float64      `json:"values"`
		} `json:"series"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/radar?task=T2&n=3", &radar))
	assert.Equal(t, []string{"f1", "main_score"}, radar.Metrics)
	require.Len(t, radar.Series, 1)

	var errResp ErrorResponse
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/radar?n=abc", &errResp))
}

func TestHandleModel(t *testing.T) {
	srv := newTestServer(t, &fakeBuilder{})

	var detail struct {
		Name      string `json:"name"`
		URL       string `json:"url"`
		Available int    `json:"available"`
		Tasks     []struct {
			Available bool `json:"available"`
		} `json:"tasks"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/models/alpha__modelA", &detail))
	assert.Equal(t, "alpha/modelA", detail.Name)
	assert.Equal(t, 1, detail.Available)
	require.Len(t, detail.Tasks, 2)
	assert.True(t, detail.Tasks[0].Available)
	assert.False(t, detail.Tasks[1].Available)

	var errResp ErrorResponse
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/models/unknown__x", &errResp))
}

func TestNotLoadedIsUnavailable(t *testing.T) {
	srv := newTestServer(t, &fakeBuilder{err: errors.New("source offline")})

	var errResp ErrorResponse
	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, srv.URL+"/api/leaderboard", &errResp))
	assert.Contains(t, errResp.Error, "source offline")
}

func TestHandleReloadSwapsOnlyOnSuccess(t *testing.T) {
	b := &fakeBuilder{}
	store := NewAggregateStore(testCatalog(), b)
	mux := http.NewServeMux()
	RegisterRoutes(mux, NewService(store, Settings{}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	first, err := store.Aggregate(context.Background())
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/reload", "application/json", nil)
	require.NoError(t, err)
	var reload ReloadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reload))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, first.Generation(), reload.Generation)
	second := store.Current()
	assert.Equal(t, reload.Generation, second.Generation())

	b.mu.Lock()
	b.err = errors.New("half the bucket is gone")
	b.mu.Unlock()

	resp, err = http.Post(srv.URL+"/api/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, second.Generation(), store.Current().Generation(), "failed reload keeps the previous generation")
	assert.Error(t, store.LastError())
}

func TestResolveDefaultsTableSort(t *testing.T) {
	svc := NewService(NewAggregateStore(testCatalog(), &fakeBuilder{}), Settings{})
	agg, err := (&fakeBuilder{}).BuildAll(context.Background(), testCatalog())
	require.NoError(t, err)

	tests := []struct {
		name string
		q    Query
		want ranking.ColumnSort
	}{
		{name: "metric descending regardless of order", q: Query{Task: "T1", Order: "asc"}, want: ranking.ColumnSort{Column: "main_score", Order: ranking.Desc}},
		{name: "selected metric", q: Query{Task: "T1", Metric: "accuracy"}, want: ranking.ColumnSort{Column: "accuracy", Order: ranking.Desc}},
		{name: "explicit direction", q: Query{Task: "T1", SortOrder: "asc"}, want: ranking.ColumnSort{Column: "main_score", Order: ranking.Asc}},
		{name: "explicit column", q: Query{Task: "T1", Sort: "accuracy", SortOrder: "asc"}, want: ranking.ColumnSort{Column: "accuracy", Order: ranking.Asc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := svc.Resolve(agg, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Sort)
		})
	}

	sel, err := svc.Resolve(agg, Query{Task: "T1"})
	require.NoError(t, err)
	assert.Equal(t, ranking.ColumnSort{Column: "main_score", Order: ranking.Asc}, sel.Sort.Click("main_score"), "first click on the default column sorts ascending")
}

func TestReloadRejectsGet(t *testing.T) {
	srv := newTestServer(t, &fakeBuilder{})
	resp, err := http.Get(srv.URL + "/api/reload")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestConcurrentFirstLoadBuildsOnce(t *testing.T) {
	b := &fakeBuilder{}
	store := NewAggregateStore(testCatalog(), b)

	var wg sync.WaitGroup
	gens := make([]string, 8)
	for i := range gens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg, err := store.Aggregate(context.Background())
			if assert.NoError(t, err) {
				gens[i] = agg.Generation()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, b.calls)
	for _, g := range gens {
		assert.Equal(t, gens[0], g)
	}
}

func TestCORSMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allowed origin", func(t *testing.T) {
		h := CORSMiddleware(inner, "http://localhost:5173")
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origin", func(t *testing.T) {
		h := CORSMiddleware(inner, "http://localhost:5173")
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		h := CORSMiddleware(inner)
		req := httptest.NewRequest(http.MethodOptions, "/api/reload", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(ErrUnknownTask))
	assert.Equal(t, http.StatusNotFound, StatusFor(ErrUnknownModel))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(ErrNotLoaded))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

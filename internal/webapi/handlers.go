package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/ranking"
	"github.com/bengali-mteb/leaderboard/internal/views"
)

// Version is set at build time or defaults to dev.
var Version = "dev"

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	svc *Service
}

// NewHandlers creates a new Handlers backed by svc.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// queryFrom reads the common selection parameters of r.
func queryFrom(r *http.Request) Query {
	q := r.URL.Query()
	return Query{
		Task:   q.Get("task"),
		Metric: q.Get("metric"),
		Order:  q.Get("order"),
		Model:  q.Get("model"),
	}
}

// HandleHealth reports liveness and the published generation, if any. It
// never triggers a load.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "ok", Version: Version}
	if agg := h.svc.store.Current(); agg != nil {
		at := agg.BuiltAt()
		resp.Generation = agg.Generation()
		resp.LoadedAt = &at
	} else {
		resp.Status = "loading"
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleStatus returns the load report of the current generation.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	agg, err := h.svc.store.Aggregate(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Generation: agg.Generation(),
		LoadedAt:   agg.BuiltAt(),
		LoadReport: agg.Report(),
	})
}

// HandleCatalog lists tasks and models. It does not need loaded results.
func (h *Handlers) HandleCatalog(w http.ResponseWriter, _ *http.Request) {
	cat := h.svc.store.Catalog()
	resp := CatalogResponse{Tasks: cat.Tasks, Models: make([]ModelInfo, 0, len(cat.Models)), Note: catalog.MTEBNote}
	for _, m := range cat.Models {
		resp.Models = append(resp.Models, ModelInfo{ModelRef: views.Ref(m), URL: h.svc.settings.URLs.ModelURL(m)})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleTaskMetrics lists the metrics available for a task.
func (h *Handlers) HandleTaskMetrics(w http.ResponseWriter, r *http.Request) {
	agg, err := h.svc.store.Aggregate(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	sel, err := h.svc.Resolve(agg, Query{Task: r.PathValue("task")})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MetricsResponse{
		Task:    sel.Task.ID,
		Metrics: nonNil(sel.Metrics),
		Default: ranking.DefaultMetric(sel.Metrics),
	})
}

// HandleLeaderboard returns the primary ranking with summary cards.
func (h *Handlers) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context(), queryFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LeaderboardResponse{
		Task:    d.Selection.Task.ID,
		Metric:  d.Selection.Metric,
		Order:   d.Selection.Order,
		Entries: nonNil(d.Entries),
		Summary: d.Summary,
	})
}

// HandleTable returns the leaderboard table. sort names the column to
// re-sort by and order its direction; rows always come from the descending
// primary ranking.
func (h *Handlers) HandleTable(w http.ResponseWriter, r *http.Request) {
	q := queryFrom(r)
	q.Sort = r.URL.Query().Get("sort")
	q.SortOrder, q.Order = q.Order, ""
	d, err := h.svc.Dashboard(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d.Table)
}

// HandleDistribution returns the score distribution.
func (h *Handlers) HandleDistribution(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context(), queryFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DistributionResponse{
		Task:   d.Selection.Task.ID,
		Metric: d.Selection.Metric,
		Points: nonNil(d.Distribution),
	})
}

// HandleHeatmap returns main_score cells of the top k models on every task.
func (h *Handlers) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	k, err := positiveParam(r, "k", h.svc.settings.HeatmapTopK)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	agg, err := h.svc.store.Aggregate(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	sel, err := h.svc.Resolve(agg, queryFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	entries := ranking.Rank(agg, sel.Task.ID, sel.Metric, sel.Order)
	writeJSON(w, http.StatusOK, views.BuildHeatmap(agg, h.svc.store.Catalog(), entries, k))
}

// HandleRadar returns the radar comparison of the top n models.
func (h *Handlers) HandleRadar(w http.ResponseWriter, r *http.Request) {
	n, err := positiveParam(r, "n", h.svc.settings.RadarTopN)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	agg, err := h.svc.store.Aggregate(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	sel, err := h.svc.Resolve(agg, Query{Task: r.URL.Query().Get("task")})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views.BuildRadar(agg, sel.Task.ID, n))
}

// HandleModel returns the detail rollup of one model.
func (h *Handlers) HandleModel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "model id is required")
		return
	}
	agg, err := h.svc.store.Aggregate(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	detail, ok := views.BuildModelDetail(agg, h.svc.store.Catalog(), h.svc.settings.URLs, catalog.ModelID(id))
	if !ok {
		writeError(w, http.StatusNotFound, ErrUnknownModel.Error())
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// HandleReload rebuilds the aggregate. The previous generation keeps
// serving until the new one is complete.
func (h *Handlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	agg, err := h.svc.store.Reload(r.Context())
	if err != nil {
		slog.Warn("reload failed", "error", err)
		if errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ReloadResponse{Generation: agg.Generation(), Report: agg.Report()})
}

// RegisterRoutes registers all web API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, svc *Service) {
	h := NewHandlers(svc)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/status", h.HandleStatus)
	mux.HandleFunc("GET /api/catalog", h.HandleCatalog)
	mux.HandleFunc("GET /api/tasks/{task}/metrics", h.HandleTaskMetrics)
	mux.HandleFunc("GET /api/leaderboard", h.HandleLeaderboard)
	mux.HandleFunc("GET /api/table", h.HandleTable)
	mux.HandleFunc("GET /api/distribution", h.HandleDistribution)
	mux.HandleFunc("GET /api/heatmap", h.HandleHeatmap)
	mux.HandleFunc("GET /api/radar", h.HandleRadar)
	mux.HandleFunc("GET /api/models/{id}", h.HandleModel)
	mux.HandleFunc("POST /api/reload", h.HandleReload)
}

// CORSMiddleware wraps a handler with CORS headers.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
// Otherwise, the request Origin is checked against the allowed list.
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if len(allowedOrigins) > 0 && origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// StatusFor maps a service error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownTask), errors.Is(err, ErrUnknownModel):
		return http.StatusNotFound
	case errors.Is(err, ranking.ErrInvalidOrder):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, StatusFor(err), err.Error())
}

func positiveParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return n, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}

package webapi

import (
	"time"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/ranking"
	"github.com/bengali-mteb/leaderboard/internal/results"
	"github.com/bengali-mteb/leaderboard/internal/views"
)

// HealthResponse is the health check response.
type HealthResponse struct {
	Status     string     `json:"status"`
	Version    string     `json:"version"`
	Generation string     `json:"generation,omitempty"`
	LoadedAt   *time.Time `json:"loadedAt,omitempty"`
}

// StatusResponse reports how the current generation was loaded.
type StatusResponse struct {
	Generation string    `json:"generation"`
	LoadedAt   time.Time `json:"loadedAt"`
	results.LoadReport
}

// ModelInfo is one model in the catalog response.
type ModelInfo struct {
	views.ModelRef
	URL string `json:"url"`
}

// CatalogResponse lists tasks and models.
type CatalogResponse struct {
	Tasks  []catalog.Task `json:"tasks"`
	Models []ModelInfo    `json:"models"`
	Note   string         `json:"note"`
}

// MetricsResponse lists the metrics reported for a task.
type MetricsResponse struct {
	Task    catalog.TaskID `json:"task"`
	Metrics []string       `json:"metrics"`
	Default string         `json:"default"`
}

// LeaderboardResponse is the primary ranking with its summary.
type LeaderboardResponse struct {
	Task    catalog.TaskID  `json:"task"`
	Metric  string          `json:"metric"`
	Order   ranking.Order   `json:"order"`
	Entries []ranking.Entry `json:"entries"`
	Summary ranking.Summary `json:"summary"`
}

// DistributionResponse is the score distribution of a ranking.
type DistributionResponse struct {
	Task   catalog.TaskID            `json:"task"`
	Metric string                    `json:"metric"`
	Points []views.DistributionPoint `json:"points"`
}

// ReloadResponse reports a finished rebuild.
type ReloadResponse struct {
	Generation string             `json:"generation"`
	Report     results.LoadReport `json:"report"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

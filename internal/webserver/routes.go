package webserver

import (
	"fmt"
	"net/http"

	"github.com/bengali-mteb/leaderboard/internal/webapi"
)

// registerRoutes sets up API and dashboard routes on the given mux.
func registerRoutes(mux *http.ServeMux, cfg Config) error {
	webapi.RegisterRoutes(mux, cfg.Service)

	dash, err := newDashboardHandler(cfg.Service, cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dashboard: %w", err)
	}
	mux.Handle("GET /{$}", dash)
	mux.HandleFunc("/api/", handleAPINotFound)
	return nil
}

// handleAPINotFound answers unknown API paths with a JSON 404 instead of the
// mux's plain text.
func handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "{\"error\":%q,\"code\":%d}\n", "no such endpoint: "+r.URL.Path, http.StatusNotFound) //nolint:errcheck
}

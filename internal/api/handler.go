// Package api implements the dorifit REST API.
// It provides optimize and run-history endpoints backed by blob storage and,
// optionally, Postgres.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dorifit/dorifit/internal/history"
	"github.com/dorifit/dorifit/internal/runner"
	"github.com/dorifit/dorifit/internal/storage"
)

// RunHistory is the subset of the run store the API reads from.
type RunHistory interface {
	GetRun(ctx context.Context, id uuid.UUID) (*history.Run, error)
	ListRuns(ctx context.Context, profile string, limit int) ([]history.Run, error)
	RecordMasterVersion(ctx context.Context, version string, cards, skills int) error
}

// Handler is the top-level API handler for the dorifit service.
type Handler struct {
	runner  *runner.Service
	runs    RunHistory
	master  storage.Client
	cache   *CatalogCache
	Options Options
}

// Options holds request defaults applied when a body leaves them unset.
type Options struct {
	Accuracy      float64
	Fever         bool
	MasterVersion string
	Difficulty    string
}

// NewHandler creates a new API handler. runs may be nil when no database is
// configured; the history endpoints then answer 501.
func NewHandler(svc *runner.Service, runs RunHistory, master storage.Client, cache *CatalogCache) *Handler {
	if cache == nil {
		cache = NewCatalogCacheFromEnv()
	}
	return &Handler{
		runner: svc,
		runs:   runs,
		master: master,
		cache:  cache,
		Options: Options{
			Accuracy:   0.95,
			Fever:      true,
			Difficulty: "expert",
		},
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/optimize", h.handleOptimize)

	mux.HandleFunc("GET /api/v1/runs/{runID}", h.handleGetRun)
	mux.HandleFunc("GET /api/v1/profiles/{name}/runs", h.handleListRuns)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Package runner orchestrates one optimization: it records the run, executes
// the optimizer, stores the full result blob and finalizes the run record.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/dorifit/dorifit/internal/history"
	"github.com/dorifit/dorifit/internal/storage"
	"github.com/dorifit/dorifit/pkg/config"
	"github.com/dorifit/dorifit/pkg/masterdata"
	"github.com/dorifit/dorifit/pkg/model"
	"github.com/dorifit/dorifit/pkg/scoring"
)

// RunStore abstracts run persistence so the runner works with or without a
// database.
type RunStore interface {
	CreateRun(ctx context.Context, profile, eventType string) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error
	Complete(ctx context.Context, id uuid.UUID, res *scoring.Result, resultRef string) error
}

// Request describes one optimization run.
type Request struct {
	Profile   *model.UserProfile
	Event     *model.EventBonus
	EventType scoring.EventType
	Bundle    *masterdata.Bundle
	Song      *model.Song
	Accuracy  float64
	Fever     bool
}

// Outcome is the result of a completed run.
type Outcome struct {
	RunID     uuid.UUID       `json:"run_id"`
	ResultRef string          `json:"result_ref,omitempty"`
	Result    *scoring.Result `json:"result"`
}

// Service runs optimizations and persists their outcomes.
type Service struct {
	runs      RunStore
	storage   storage.Client
	optimizer *scoring.Optimizer
}

// NewService creates a runner Service. runs and store may be nil, in which
// case the corresponding persistence step is skipped.
func NewService(runs RunStore, store storage.Client, optimizer *scoring.Optimizer) *Service {
	if optimizer == nil {
		optimizer = scoring.NewOptimizer(scoring.Defaults())
	}
	return &Service{runs: runs, storage: store, optimizer: optimizer}
}

// Run executes the full pipeline for one request.
func (s *Service) Run(ctx context.Context, req Request) (out *Outcome, err error) {
	if req.Profile == nil {
		return nil, scoring.ErrNoProfile
	}
	if req.Bundle == nil {
		return nil, fmt.Errorf("master data is required")
	}
	eventType := req.EventType
	if eventType == "" {
		eventType = scoring.EventStory
	}

	// 1. Create run record
	slug := config.ProfileSlug(req.Profile.Name)
	runID := uuid.New()
	if s.runs != nil {
		runID, err = s.runs.CreateRun(ctx, slug, string(eventType))
		if err != nil {
			return nil, fmt.Errorf("create run: %w", err)
		}
		if err = s.runs.UpdateStatus(ctx, runID, history.StatusRunning, nil); err != nil {
			return nil, fmt.Errorf("update status to running: %w", err)
		}

		// On failure, mark run as failed
		defer func() {
			if err != nil {
				errMsg := err.Error()
				if updateErr := s.runs.UpdateStatus(ctx, runID, history.StatusFailed, &errMsg); updateErr != nil {
					log.Printf("failed to update run status: %v", updateErr)
				}
			}
		}()
	}

	// 2. Optimize
	start := time.Now()
	res, err := s.optimizer.Optimize(ctx, &scoring.Request{
		Catalog:   req.Bundle.Catalog,
		Bands:     req.Bundle.Bands,
		Skills:    req.Bundle.Skills,
		Profile:   req.Profile,
		Event:     req.Event,
		EventType: eventType,
		Song:      req.Song,
		Accuracy:  req.Accuracy,
		Fever:     req.Fever,
	})
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	log.Printf("run %s: %s event for %q, total %.1f over %d contexts in %s",
		runID, eventType, req.Profile.Name, res.Total, res.Contexts, time.Since(start).Round(time.Millisecond))

	// 3. Store result blob
	var ref string
	if s.storage != nil {
		data, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("marshal result: %w", err)
		}
		if err := s.storage.PutResult(ctx, slug, runID.String(), data); err != nil {
			return nil, fmt.Errorf("store result: %w", err)
		}
		ref = ResultRef(slug, runID)
	}

	// 4. Finalize
	if s.runs != nil {
		if err = s.runs.Complete(ctx, runID, res, ref); err != nil {
			return nil, fmt.Errorf("complete run: %w", err)
		}
	}

	return &Outcome{RunID: runID, ResultRef: ref, Result: res}, nil
}

// ResultRef is the storage reference recorded for a run's result blob.
func ResultRef(profileSlug string, runID uuid.UUID) string {
	return fmt.Sprintf("results/%s/%s.json", profileSlug, runID)
}

// LoadResult fetches a stored result blob.
func (s *Service) LoadResult(ctx context.Context, profile string, runID uuid.UUID) (*scoring.Result, error) {
	if s.storage == nil {
		return nil, storage.ErrNotFound
	}
	data, err := s.storage.GetResult(ctx, config.ProfileSlug(profile), runID.String())
	if err != nil {
		return nil, err
	}
	var res scoring.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", runID, err)
	}
	return &res, nil
}

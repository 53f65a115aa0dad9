package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dorifit/dorifit/internal/runner"
	"github.com/dorifit/dorifit/internal/storage"
	"github.com/dorifit/dorifit/pkg/masterdata"
	"github.com/dorifit/dorifit/pkg/model"
	"github.com/dorifit/dorifit/pkg/profile"
	"github.com/dorifit/dorifit/pkg/scoring"
)

// currentVersion keys the unversioned master-data files.
const currentVersion = "current"

type optimizeRequest struct {
	Profile       *model.UserProfile `json:"profile"`
	RawProfile    json.RawMessage    `json:"raw_profile"`
	Event         *model.EventBonus  `json:"event"`
	EventType     string             `json:"event_type"`
	SongID        int                `json:"song_id"`
	Difficulty    string             `json:"difficulty"`
	SongLevel     int                `json:"song_level"`
	Accuracy      *float64           `json:"accuracy"`
	Fever         *bool              `json:"fever"`
	MasterVersion string             `json:"master_version"`
}

func (h *Handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { optimizeLatency.Observe(time.Since(start).Seconds()) }()

	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		optimizeRequests.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	runReq, status, err := h.buildRunRequest(r.Context(), &req)
	if err != nil {
		optimizeRequests.WithLabelValues(outcomeLabel(status)).Inc()
		writeError(w, status, err.Error())
		return
	}

	out, err := h.runner.Run(r.Context(), runReq)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("optimize for %q failed: %v", runReq.Profile.Name, err)
		}
		optimizeRequests.WithLabelValues(outcomeLabel(status)).Inc()
		writeError(w, status, err.Error())
		return
	}

	optimizeRequests.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, out)
}

// buildRunRequest resolves the profile, event type, master data and song of
// an optimize request. The returned status applies when err is non-nil.
func (h *Handler) buildRunRequest(ctx context.Context, req *optimizeRequest) (runner.Request, int, error) {
	var out runner.Request

	prof, err := requestProfile(req)
	if err != nil {
		return out, http.StatusBadRequest, err
	}
	eventType, err := scoring.ParseEventType(req.EventType)
	if err != nil {
		return out, http.StatusBadRequest, err
	}

	version := req.MasterVersion
	if version == "" {
		version = h.Options.MasterVersion
	}
	src := versionedSource{src: h.master, version: version}
	bundle, err := h.bundle(ctx, src, version)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			return out, http.StatusServiceUnavailable, fmt.Errorf("master data unavailable: %w", err)
		}
		return out, statusFor(err), err
	}

	if req.SongLevel < 0 {
		return out, http.StatusBadRequest, fmt.Errorf("%w: got %d", scoring.ErrNoSongLevel, req.SongLevel)
	}
	var song *model.Song
	if eventType.SkillSensitive() && req.SongID != 0 {
		difficulty := req.Difficulty
		if difficulty == "" {
			difficulty = h.Options.Difficulty
		}
		song, err = masterdata.LoadSong(ctx, src, req.SongID, difficulty, req.SongLevel)
		if errors.Is(err, storage.ErrNotFound) {
			return out, http.StatusBadRequest, fmt.Errorf("song %d (%s) not found", req.SongID, difficulty)
		}
		if err != nil {
			return out, statusFor(err), err
		}
	}

	accuracy := h.Options.Accuracy
	if req.Accuracy != nil {
		accuracy = *req.Accuracy
	}
	fever := h.Options.Fever
	if req.Fever != nil {
		fever = *req.Fever
	}

	return runner.Request{
		Profile:   prof,
		Event:     req.Event,
		EventType: eventType,
		Bundle:    bundle,
		Song:      song,
		Accuracy:  accuracy,
		Fever:     fever,
	}, http.StatusOK, nil
}

func requestProfile(req *optimizeRequest) (*model.UserProfile, error) {
	if req.Profile != nil {
		return req.Profile, nil
	}
	if len(req.RawProfile) == 0 {
		return nil, scoring.ErrNoProfile
	}
	raw, err := profile.ParseRaw(req.RawProfile)
	if err != nil {
		return nil, err
	}
	return profile.Convert(raw)
}

// bundle returns the parsed master data for a version, loading and caching
// it on first use.
func (h *Handler) bundle(ctx context.Context, src masterdata.Source, version string) (*masterdata.Bundle, error) {
	key := version
	if key == "" {
		key = currentVersion
	}
	if b := h.cache.Get(key); b != nil {
		catalogLookups.WithLabelValues("hit").Inc()
		return b, nil
	}
	catalogLookups.WithLabelValues("miss").Inc()

	b, err := masterdata.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	h.cache.Put(key, b)
	log.Printf("loaded master data %s: %d cards, %d skills", key, len(b.Catalog), len(b.Skills))

	if h.runs != nil {
		if err := h.runs.RecordMasterVersion(ctx, key, len(b.Catalog), len(b.Skills)); err != nil {
			log.Printf("failed to record master version %s: %v", key, err)
		}
	}
	return b, nil
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, scoring.ErrNoProfile),
		errors.Is(err, scoring.ErrNoEvent),
		errors.Is(err, scoring.ErrNoSong),
		errors.Is(err, scoring.ErrNoSongLevel),
		errors.Is(err, scoring.ErrInvalidAccuracy),
		errors.Is(err, scoring.ErrInvalidLevel),
		errors.Is(err, scoring.ErrUnknownEvent),
		errors.Is(err, profile.ErrInvalidProfile):
		return http.StatusBadRequest
	case errors.Is(err, scoring.ErrMissingBand),
		errors.Is(err, scoring.ErrMissingSkill),
		errors.Is(err, masterdata.ErrMalformed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func outcomeLabel(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "bad_request"
	case status == http.StatusUnprocessableEntity:
		return "unprocessable"
	case status >= 500:
		return "error"
	}
	return "ok"
}

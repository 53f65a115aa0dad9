// Package history persists optimization runs in Postgres so results can be
// fetched again and listed per profile.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dorifit/dorifit/pkg/model"
	"github.com/dorifit/dorifit/pkg/scoring"
)

// Run lifecycle states.
const (
	StatusQueued    = "QUEUED"
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// DefaultListLimit caps ListRuns when no limit is given.
const DefaultListLimit = 50

// Run is one stored optimization.
type Run struct {
	ID           uuid.UUID        `json:"id"`
	Profile      string           `json:"profile"`
	EventType    string           `json:"event_type"`
	Status       string           `json:"status"`
	Total        *float64         `json:"total,omitempty"`
	Attribute    *string          `json:"attribute,omitempty"`
	Band         *string          `json:"band,omitempty"`
	MagazineAxis *string          `json:"magazine_axis,omitempty"`
	Contexts     *int             `json:"contexts_evaluated,omitempty"`
	Members      []model.CalcCard `json:"members,omitempty"`
	Warnings     []string         `json:"warnings,omitempty"`
	ResultRef    *string          `json:"result_ref,omitempty"`
	Error        *string          `json:"error,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Store provides run persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// NewStore creates a new run Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ParseRunID parses a run id from its string form.
func ParseRunID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a run id", ErrRunNotFound, s)
	}
	return id, nil
}

// CreateRun inserts a queued run and returns its id.
func (s *Store) CreateRun(ctx context.Context, profile, eventType string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, profile, event_type, status) VALUES ($1, $2, $3, $4)`,
		id, profile, eventType, StatusQueued,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

// UpdateStatus updates the status and optional error message.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = $1, error_message = $2, updated_at = now() WHERE id = $3`,
		status, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	return nil
}

// Complete records a finished run's result summary.
func (s *Store) Complete(ctx context.Context, id uuid.UUID, res *scoring.Result, resultRef string) error {
	members, err := json.Marshal(res.Members)
	if err != nil {
		return fmt.Errorf("marshal members: %w", err)
	}
	warnings, err := json.Marshal(res.Warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE runs SET status = $1, total = $2, attribute = $3, band = $4, magazine_axis = $5,
		        contexts = $6, members = $7, warnings = $8, result_ref = $9, updated_at = now()
		 WHERE id = $10`,
		StatusCompleted, res.Total,
		nilIfEmpty(res.Investment.Attribute), nilIfEmpty(res.Investment.Band), nilIfEmpty(res.Investment.MagazineAxis),
		res.Contexts, string(members), string(warnings), nilIfEmpty(resultRef), id,
	)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

const runColumns = `id, profile, event_type, status, total, attribute, band, magazine_axis,
	contexts, members, warnings, result_ref, error_message, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		r                 Run
		members, warnings []byte
	)
	err := row.Scan(&r.ID, &r.Profile, &r.EventType, &r.Status, &r.Total, &r.Attribute, &r.Band,
		&r.MagazineAxis, &r.Contexts, &members, &warnings, &r.ResultRef, &r.Error, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := decodeJSONColumn(members, &r.Members); err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}
	if err := decodeJSONColumn(warnings, &r.Warnings); err != nil {
		return nil, fmt.Errorf("decode warnings: %w", err)
	}
	return &r, nil
}

func decodeJSONColumn(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// GetRun retrieves a run by id.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

// ListRuns returns a profile's runs, newest first.
func (s *Store) ListRuns(ctx context.Context, profile string, limit int) ([]Run, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE profile = $1 ORDER BY created_at DESC LIMIT $2`,
		profile, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// RecordMasterVersion notes that a master-data version was loaded.
func (s *Store) RecordMasterVersion(ctx context.Context, version string, cards, skills int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO master_versions (version, card_count, skill_count) VALUES ($1, $2, $3)
		 ON CONFLICT (version) DO UPDATE SET card_count = EXCLUDED.card_count,
		   skill_count = EXCLUDED.skill_count, loaded_at = now()`,
		version, cards, skills,
	)
	if err != nil {
		return fmt.Errorf("record master version %s: %w", version, err)
	}
	return nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

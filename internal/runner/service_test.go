package runner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dorifit/dorifit/internal/history"
	"github.com/dorifit/dorifit/internal/runner"
	"github.com/dorifit/dorifit/internal/storage"
	"github.com/dorifit/dorifit/pkg/masterdata"
	"github.com/dorifit/dorifit/pkg/model"
	"github.com/dorifit/dorifit/pkg/scoring"
)

var _ runner.RunStore = (*history.Store)(nil)

type fakeRuns struct {
	id        uuid.UUID
	profile   string
	statuses  []string
	lastErr   string
	completed *scoring.Result
	ref       string
}

func (f *fakeRuns) CreateRun(_ context.Context, profile, eventType string) (uuid.UUID, error) {
	f.id = uuid.New()
	f.profile = profile
	f.statuses = append(f.statuses, history.StatusQueued)
	return f.id, nil
}

func (f *fakeRuns) UpdateStatus(_ context.Context, id uuid.UUID, status string, errMsg *string) error {
	f.statuses = append(f.statuses, status)
	if errMsg != nil {
		f.lastErr = *errMsg
	}
	return nil
}

func (f *fakeRuns) Complete(_ context.Context, id uuid.UUID, res *scoring.Result, ref string) error {
	f.statuses = append(f.statuses, history.StatusCompleted)
	f.completed = res
	f.ref = ref
	return nil
}

func testBundle() *masterdata.Bundle {
	ts := int64(1600000000000)
	return &masterdata.Bundle{
		Catalog: model.Catalog{
			1: {
				ID: 1, CharacterID: 1, Rarity: 4, Attribute: "happy", SkillID: 1,
				ReleasedAt: []*int64{&ts},
				Stat: []model.StatEntry{
					{Kind: model.StatLevelTier, Tier: 1, Name: "1", Stats: model.Stats{Performance: 1000, Technique: 1000, Visual: 1000}},
					{Kind: model.StatLevelTier, Tier: 60, Name: "60", Stats: model.Stats{Performance: 3000, Technique: 3000, Visual: 3000}},
				},
			},
		},
		Bands: model.CharacterBands{1: "Poppin'Party"},
	}
}

func testRequest() runner.Request {
	return runner.Request{
		Profile: &model.UserProfile{
			Name:  "Alice B",
			Cards: []model.CardStatus{{ID: 1, Level: 60}},
		},
		Event:     &model.EventBonus{Attribute: "happy", AttributeRate: 0.1, Parameter: model.AxisPerformance},
		EventType: scoring.EventStory,
		Bundle:    testBundle(),
	}
}

func TestRun_Lifecycle(t *testing.T) {
	runs := &fakeRuns{}
	store := storage.NewLocalStorage(t.TempDir())
	svc := runner.NewService(runs, store, nil)

	out, err := svc.Run(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if runs.profile != "alice-b" {
		t.Errorf("run profile = %q, want slug alice-b", runs.profile)
	}
	if out.RunID != runs.id {
		t.Errorf("run id = %s, want %s", out.RunID, runs.id)
	}

	want := []string{history.StatusQueued, history.StatusRunning, history.StatusCompleted}
	if len(runs.statuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", runs.statuses, want)
	}
	for i := range want {
		if runs.statuses[i] != want[i] {
			t.Errorf("status[%d] = %s, want %s", i, runs.statuses[i], want[i])
		}
	}

	if len(out.Result.Members) != 1 || out.Result.Members[0].CardID != 1 {
		t.Errorf("members = %+v", out.Result.Members)
	}
	if out.ResultRef != "results/alice-b/"+out.RunID.String()+".json" || runs.ref != out.ResultRef {
		t.Errorf("result ref = %q (store saw %q)", out.ResultRef, runs.ref)
	}

	loaded, err := svc.LoadResult(context.Background(), "Alice B", out.RunID)
	if err != nil {
		t.Fatalf("LoadResult: %v", err)
	}
	if loaded.Total != out.Result.Total {
		t.Errorf("loaded total = %f, want %f", loaded.Total, out.Result.Total)
	}
}

func TestRun_FailureMarksRunFailed(t *testing.T) {
	runs := &fakeRuns{}
	svc := runner.NewService(runs, nil, nil)

	req := testRequest()
	req.Event = nil
	_, err := svc.Run(context.Background(), req)
	if !errors.Is(err, scoring.ErrNoEvent) {
		t.Fatalf("error = %v, want ErrNoEvent", err)
	}

	last := runs.statuses[len(runs.statuses)-1]
	if last != history.StatusFailed {
		t.Errorf("final status = %s, want FAILED", last)
	}
	if runs.lastErr == "" {
		t.Error("expected error message to be recorded")
	}
}

func TestRun_WithoutPersistence(t *testing.T) {
	svc := runner.NewService(nil, nil, scoring.NewOptimizer(scoring.Options{Workers: 2}))

	out, err := svc.Run(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.RunID == uuid.Nil {
		t.Error("expected a generated run id")
	}
	if out.ResultRef != "" {
		t.Errorf("result ref = %q, want empty without storage", out.ResultRef)
	}
	if _, err := svc.LoadResult(context.Background(), "Alice B", out.RunID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("LoadResult without storage = %v, want ErrNotFound", err)
	}
}

func TestRun_RequiresProfileAndBundle(t *testing.T) {
	svc := runner.NewService(nil, nil, nil)

	req := testRequest()
	req.Profile = nil
	if _, err := svc.Run(context.Background(), req); !errors.Is(err, scoring.ErrNoProfile) {
		t.Errorf("error = %v, want ErrNoProfile", err)
	}

	req = testRequest()
	req.Bundle = nil
	if _, err := svc.Run(context.Background(), req); err == nil {
		t.Error("expected error without master data")
	}
}

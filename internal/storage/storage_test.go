package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dorifit/dorifit/pkg/config"
	"github.com/dorifit/dorifit/pkg/masterdata"
)

// compile-time checks
var (
	_ Client            = (*LocalStorage)(nil)
	_ Client            = (*S3Storage)(nil)
	_ Client            = (*GCSStorage)(nil)
	_ masterdata.Source = Client(nil)
)

func TestLocalStoragePutGetMaster(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"1":{}}`)
	if err := s.PutMaster(ctx, "songs/7/expert.json", data); err != nil {
		t.Fatalf("PutMaster: %v", err)
	}

	got, err := s.GetMaster(ctx, "songs/7/expert.json")
	if err != nil {
		t.Fatalf("GetMaster: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetMaster = %q, want %q", got, data)
	}

	// Verify file path layout
	expectedPath := filepath.Join(dir, "master", "songs", "7", "expert.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStoragePutGetResult(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"total":161478}`)
	if err := s.PutResult(ctx, "alice", "run1", data); err != nil {
		t.Fatalf("PutResult: %v", err)
	}

	got, err := s.GetResult(ctx, "alice", "run1")
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetResult = %q, want %q", got, data)
	}

	expectedPath := filepath.Join(dir, "results", "alice", "run1.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStorageGetNotFound(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	ctx := context.Background()

	if _, err := s.GetResult(ctx, "alice", "nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetResult error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetMaster(ctx, "cards.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMaster error = %v, want ErrNotFound", err)
	}
}

func TestInvalidNames(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "../secrets.json", "/etc/passwd", "songs//x.json", `a\b.json`, "a/./b.json"} {
		if err := s.PutMaster(ctx, name, nil); !errors.Is(err, ErrInvalidName) {
			t.Errorf("PutMaster(%q) error = %v, want ErrInvalidName", name, err)
		}
	}
	if err := s.PutResult(ctx, "alice/bob", "run", nil); !errors.Is(err, ErrInvalidName) {
		t.Errorf("nested profile error = %v, want ErrInvalidName", err)
	}
	if _, err := s.GetResult(ctx, "alice", ".."); !errors.Is(err, ErrInvalidName) {
		t.Errorf("parent run id error = %v, want ErrInvalidName", err)
	}
}

func TestImportDir(t *testing.T) {
	src := t.TempDir()
	files := map[string]string{
		"cards.json":            `{}`,
		"songs/1/expert.json":   `[]`,
		"README.txt":            "ignored",
		"songs/1/notes.partial": "ignored",
	}
	for name, content := range files {
		p := filepath.Join(src, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	dst := NewLocalStorage(t.TempDir())
	names, err := ImportDir(context.Background(), dst, src)
	if err != nil {
		t.Fatalf("ImportDir: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("imported %v, want 2 json files", names)
	}
	if _, err := dst.GetMaster(context.Background(), "songs/1/expert.json"); err != nil {
		t.Errorf("GetMaster after import: %v", err)
	}
}

func TestOpenLocal(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Dir = t.TempDir()

	c, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ls, ok := c.(*LocalStorage)
	if !ok {
		t.Fatalf("Open returned %T, want *LocalStorage", c)
	}
	if ls.BaseDir != cfg.Storage.Dir {
		t.Errorf("BaseDir = %q, want %q", ls.BaseDir, cfg.Storage.Dir)
	}

	cfg.Storage.Backend = "ftp"
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}

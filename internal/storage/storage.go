// Package storage provides blob access for master-data dumps and stored
// optimization results, backed by the local filesystem, S3 or GCS.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dorifit/dorifit/pkg/config"
)

// ErrNotFound is returned when a requested blob does not exist.
var ErrNotFound = errors.New("blob not found")

// ErrInvalidName is returned for blob names that escape their namespace.
var ErrInvalidName = errors.New("invalid blob name")

// Client abstracts blob storage for master data and results.
type Client interface {
	GetMaster(ctx context.Context, name string) ([]byte, error)
	PutMaster(ctx context.Context, name string, data []byte) error
	GetResult(ctx context.Context, profile, runID string) ([]byte, error)
	PutResult(ctx context.Context, profile, runID string, data []byte) error
}

// Key layout shared by every backend.
const (
	masterPrefix = "master"
	resultPrefix = "results"
)

func masterKey(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return path.Join(masterPrefix, name), nil
}

func resultKey(profile, runID string) (string, error) {
	for _, part := range []string{profile, runID} {
		if err := checkName(part); err != nil {
			return "", err
		}
		if strings.Contains(part, "/") {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, part)
		}
	}
	return path.Join(resultPrefix, profile, runID+".json"), nil
}

// checkName rejects empty, absolute and parent-relative names.
func checkName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." || seg == "." || seg == "" {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}

// Open creates the Client selected by the storage config.
func Open(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.Storage.Backend {
	case "", config.BackendLocal:
		return NewLocalStorage(cfg.StorageDir()), nil
	case config.BackendS3:
		return NewS3Storage(ctx, S3Config{
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
	case config.BackendGCS:
		return NewGCSStorage(ctx, cfg.Storage.Bucket)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// LocalStorage implements Client using the local filesystem.
// Useful for the CLI, development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.BaseDir, filepath.FromSlash(key))
}

func (s *LocalStorage) put(key string, data []byte) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(p, data, 0o644)
}

func (s *LocalStorage) get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return data, err
}

// GetMaster retrieves a master-data blob.
func (s *LocalStorage) GetMaster(ctx context.Context, name string) ([]byte, error) {
	key, err := masterKey(name)
	if err != nil {
		return nil, err
	}
	return s.get(key)
}

// PutMaster stores a master-data blob.
func (s *LocalStorage) PutMaster(ctx context.Context, name string, data []byte) error {
	key, err := masterKey(name)
	if err != nil {
		return err
	}
	return s.put(key, data)
}

// GetResult retrieves a stored result.
func (s *LocalStorage) GetResult(ctx context.Context, profile, runID string) ([]byte, error) {
	key, err := resultKey(profile, runID)
	if err != nil {
		return nil, err
	}
	return s.get(key)
}

// PutResult stores a result.
func (s *LocalStorage) PutResult(ctx context.Context, profile, runID string, data []byte) error {
	key, err := resultKey(profile, runID)
	if err != nil {
		return err
	}
	return s.put(key, data)
}

// ImportDir copies every .json file under dir into the client's master-data
// namespace, keeping relative paths. It returns the imported names.
func ImportDir(ctx context.Context, c Client, dir string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".json" {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		name := filepath.ToSlash(rel)
		if err := c.PutMaster(ctx, name, data); err != nil {
			return fmt.Errorf("store %s: %w", name, err)
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

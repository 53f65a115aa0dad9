package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// GCSStorage implements Client using Google Cloud Storage.
type GCSStorage struct {
	client *gcs.Client
	bucket string
}

// NewGCSStorage creates a GCS-backed Client.
// It uses Application Default Credentials (works with Workload Identity, SA keys, gcloud auth).
func NewGCSStorage(ctx context.Context, bucket string) (*GCSStorage, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket}, nil
}

func (s *GCSStorage) put(ctx context.Context, key string, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", key, err)
	}
	return nil
}

func (s *GCSStorage) get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: gcs %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("gcs read %s: %w", key, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *GCSStorage) GetMaster(ctx context.Context, name string) ([]byte, error) {
	key, err := masterKey(name)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, key)
}

func (s *GCSStorage) PutMaster(ctx context.Context, name string, data []byte) error {
	key, err := masterKey(name)
	if err != nil {
		return err
	}
	return s.put(ctx, key, data)
}

func (s *GCSStorage) GetResult(ctx context.Context, profile, runID string) ([]byte, error) {
	key, err := resultKey(profile, runID)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, key)
}

func (s *GCSStorage) PutResult(ctx context.Context, profile, runID string, data []byte) error {
	key, err := resultKey(profile, runID)
	if err != nil {
		return err
	}
	return s.put(ctx, key, data)
}

package gcs

import (
	"context"
	"fmt"
	"io"
	"os"

	gstorage "cloud.google.com/go/storage"

	"recipe-insights-go/internal/storage"
)

// Store implements storage.Store on a Google Cloud Storage bucket.
type Store struct {
	client *gstorage.Client
	bucket string
}

func New(ctx context.Context, bucket string) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("a bucket name is needed to use cloud storage")
	}
	client, err := gstorage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &Store{client: client, bucket: bucket}, nil
}

func (s *Store) Put(ctx context.Context, localPath, key string) (storage.Locator, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return storage.Locator{}, fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer f.Close()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.CacheControl = "public, max-age=31536000"
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return storage.Locator{}, fmt.Errorf("uploading %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return storage.Locator{}, fmt.Errorf("finalizing upload of %s: %w", key, err)
	}
	return storage.Locator{Scheme: "gs", Bucket: s.bucket, Key: key}, nil
}

func (s *Store) Get(ctx context.Context, loc storage.Locator, localPath string) error {
	r, err := s.client.Bucket(loc.Bucket).Object(loc.Key).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("opening %s: %w", loc, err)
	}
	defer r.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", localPath, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("downloading %s: %w", loc, err)
	}
	return f.Close()
}

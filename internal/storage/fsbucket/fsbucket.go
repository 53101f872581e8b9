package fsbucket

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"recipe-insights-go/internal/storage"
)

// Store implements storage.Store on a local directory, one subdirectory
// per bucket. Meant for development and tests.
type Store struct {
	BaseDir string
	Bucket  string
}

func New(baseDir, bucket string) *Store {
	return &Store{BaseDir: baseDir, Bucket: bucket}
}

func (s *Store) Put(ctx context.Context, localPath, key string) (storage.Locator, error) {
	dst := filepath.Join(s.BaseDir, s.Bucket, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return storage.Locator{}, fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := copyFile(localPath, dst); err != nil {
		return storage.Locator{}, fmt.Errorf("failed to store %s: %w", key, err)
	}
	return storage.Locator{Scheme: "file", Bucket: s.Bucket, Key: key}, nil
}

func (s *Store) Get(ctx context.Context, loc storage.Locator, localPath string) error {
	src := filepath.Join(s.BaseDir, loc.Bucket, filepath.FromSlash(loc.Key))
	if err := copyFile(src, localPath); err != nil {
		return fmt.Errorf("failed to retrieve %s: %w", loc, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

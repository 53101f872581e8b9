package storage

import (
	"context"
	"fmt"
	"strings"
)

// Locator addresses a blob as <scheme>://<bucket>/<key>.
type Locator struct {
	Scheme string
	Bucket string
	Key    string
}

func (l Locator) String() string {
	return fmt.Sprintf("%s://%s/%s", l.Scheme, l.Bucket, l.Key)
}

// ParseLocator splits a locator string into its parts. The scheme is not
// validated so locators stay portable across store implementations.
func ParseLocator(s string) (Locator, error) {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok || scheme == "" {
		return Locator{}, fmt.Errorf("locator %q: missing scheme", s)
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return Locator{}, fmt.Errorf("locator %q: want <scheme>://<bucket>/<key>", s)
	}
	return Locator{Scheme: scheme, Bucket: bucket, Key: key}, nil
}

// Store is the object store the pipeline stages hand audio through.
type Store interface {
	// Put uploads the file at localPath under key and returns its locator.
	Put(ctx context.Context, localPath, key string) (Locator, error)
	// Get downloads the blob at loc to localPath.
	Get(ctx context.Context, loc Locator, localPath string) error
}

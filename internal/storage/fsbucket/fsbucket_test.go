package fsbucket

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir(), "media")

	src := filepath.Join(t.TempDir(), "audio.mp3")
	if err := os.WriteFile(src, []byte("mp3 bytes"), 0644); err != nil {
		t.Fatalf("writing source file: %v", err)
	}

	loc, err := store.Put(ctx, src, "audio/test_run/audio.mp3")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := loc.String(); got != "file://media/audio/test_run/audio.mp3" {
		t.Fatalf("locator: got %q want %q", got, "file://media/audio/test_run/audio.mp3")
	}

	dst := filepath.Join(t.TempDir(), "staged.mp3")
	if err := store.Get(ctx, loc, dst); err != nil {
		t.Fatalf("get: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading staged file: %v", err)
	}
	if string(data) != "mp3 bytes" {
		t.Fatalf("content: got %q want %q", data, "mp3 bytes")
	}
}

func TestPutMissingSource(t *testing.T) {
	store := New(t.TempDir(), "media")
	if _, err := store.Put(context.Background(), filepath.Join(t.TempDir(), "nope.mp3"), "audio/x/audio.mp3"); err == nil {
		t.Fatal("expected error for missing source file")
	}
}

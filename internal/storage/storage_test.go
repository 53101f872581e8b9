package storage

import "testing"

func TestParseLocator(t *testing.T) {
	loc, err := ParseLocator("gs://recipes/audio/Chef_A_Pasta/audio.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Scheme != "gs" {
		t.Fatalf("scheme: got %q want %q", loc.Scheme, "gs")
	}
	if loc.Bucket != "recipes" {
		t.Fatalf("bucket: got %q want %q", loc.Bucket, "recipes")
	}
	if loc.Key != "audio/Chef_A_Pasta/audio.mp3" {
		t.Fatalf("key: got %q want %q", loc.Key, "audio/Chef_A_Pasta/audio.mp3")
	}
}

func TestParseLocatorRoundTrip(t *testing.T) {
	in := "file://media/audio/x/audio.mp3"
	loc, err := ParseLocator(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := loc.String(); got != in {
		t.Fatalf("round trip: got %q want %q", got, in)
	}
}

func TestParseLocatorInvalid(t *testing.T) {
	for _, in := range []string{"", "recipes/audio.mp3", "gs://", "gs://bucketonly", "gs://bucket/"} {
		if _, err := ParseLocator(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"recipe-insights-go/internal/acquire"
	"recipe-insights-go/internal/extract"
	"recipe-insights-go/internal/storage"
	"recipe-insights-go/internal/types"
)

type stubAcquirer struct {
	artifact types.AudioArtifact
	meta     types.MediaMetadata
	err      error
}

func (s *stubAcquirer) Acquire(ctx context.Context, sourceURL string) (types.AudioArtifact, types.MediaMetadata, error) {
	if s.err != nil {
		return types.AudioArtifact{}, types.MediaMetadata{}, s.err
	}
	return s.artifact, s.meta, nil
}

type stubTranscriber struct {
	transcript string
	err        error
	calls      int
}

func (s *stubTranscriber) Transcribe(ctx context.Context, artifact types.AudioArtifact) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.transcript, nil
}

type stubExtractor struct {
	lines   []string
	summary string
	err     error
	calls   int
}

func (s *stubExtractor) ExtractIngredients(ctx context.Context, transcript string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.lines, nil
}

func (s *stubExtractor) Summarize(ctx context.Context, transcript string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

func testArtifact() types.AudioArtifact {
	return types.AudioArtifact{
		Locator:     storage.Locator{Scheme: "file", Bucket: "media", Key: "audio/x/audio.mp3"},
		ContentType: "audio/mpeg",
	}
}

func TestProcess(t *testing.T) {
	meta := types.MediaMetadata{Title: "Pasta Night", Author: "Chef A", ViewCount: 1000}
	p := New(
		&stubAcquirer{artifact: testArtifact(), meta: meta},
		&stubTranscriber{transcript: "Boil pasta. Add sauce."},
		&stubExtractor{
			lines: []string{
				"2 cups flour",
				"1 egg",
				extract.Sentinel,
				"Flour - Amazon link",
			},
			summary: "1. Boil pasta. 2. Add sauce.",
		},
	)

	res, err := p.Process(context.Background(), "https://example.com/watch?v=abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MediaMetadata != meta {
		t.Fatalf("metadata changed in flight: got %+v want %+v", res.MediaMetadata, meta)
	}
	if want := []string{"2 cups flour", "1 egg"}; !reflect.DeepEqual(res.Ingredients, want) {
		t.Fatalf("ingredients: got %v want %v", res.Ingredients, want)
	}
	if want := []string{"Flour - Amazon link"}; !reflect.DeepEqual(res.OrderSuggestions, want) {
		t.Fatalf("order suggestions: got %v want %v", res.OrderSuggestions, want)
	}
	if res.Summary != "1. Boil pasta. 2. Add sauce." {
		t.Fatalf("summary: got %q", res.Summary)
	}
}

func TestProcessGoneSourceNeverTranscribes(t *testing.T) {
	transcriber := &stubTranscriber{transcript: "unused"}
	p := New(
		&stubAcquirer{err: fmt.Errorf("resolving video info: %w", acquire.ErrSourceGone)},
		transcriber,
		&stubExtractor{},
	)

	_, err := p.Process(context.Background(), "https://example.com/watch?v=gone")
	if !errors.Is(err, acquire.ErrSourceGone) {
		t.Fatalf("expected ErrSourceGone through the wrap, got %v", err)
	}
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageAcquire {
		t.Fatalf("expected acquire stage error, got %v", err)
	}
	if transcriber.calls != 0 {
		t.Fatalf("transcription must not run after acquisition failure, got %d calls", transcriber.calls)
	}
}

func TestProcessTranscriptionFailureSkipsExtraction(t *testing.T) {
	extractor := &stubExtractor{lines: []string{"unused"}}
	p := New(
		&stubAcquirer{artifact: testArtifact(), meta: types.MediaMetadata{Title: "t"}},
		&stubTranscriber{err: errors.New("transcription response missing text field")},
		extractor,
	)

	_, err := p.Process(context.Background(), "https://example.com/watch?v=abc")
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageTranscribe {
		t.Fatalf("expected transcribe stage error, got %v", err)
	}
	if extractor.calls != 0 {
		t.Fatalf("extraction must not run after transcription failure, got %d calls", extractor.calls)
	}
}

func TestProcessExtractionFailure(t *testing.T) {
	p := New(
		&stubAcquirer{artifact: testArtifact(), meta: types.MediaMetadata{Title: "t"}},
		&stubTranscriber{transcript: "text"},
		&stubExtractor{err: errors.New("model overloaded")},
	)

	_, err := p.Process(context.Background(), "https://example.com/watch?v=abc")
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageExtract {
		t.Fatalf("expected extract stage error, got %v", err)
	}
}

func TestStageErrorMessage(t *testing.T) {
	err := &StageError{Stage: StageTranscribe, Err: errors.New("boom")}
	if err.Error() != "transcribe: boom" {
		t.Fatalf("message: got %q want %q", err.Error(), "transcribe: boom")
	}
}

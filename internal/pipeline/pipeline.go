package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"recipe-insights-go/internal/extract"
	"recipe-insights-go/internal/logger"
	"recipe-insights-go/internal/types"
)

// State identifies where a run is in the chain. Transitions are strictly
// linear; Failed absorbs from any non-terminal state.
type State string

const (
	StateIdle         State = "idle"
	StateAcquiring    State = "acquiring"
	StateTranscribing State = "transcribing"
	StateExtracting   State = "extracting"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageAcquire    Stage = "acquire"
	StageTranscribe Stage = "transcribe"
	StageExtract    Stage = "extract"
)

// StageError tags a stage failure while keeping the original error
// reachable through errors.Is and errors.As.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Acquirer, Transcriber and Extractor are the collaborator contracts the
// orchestrator consumes.
type Acquirer interface {
	Acquire(ctx context.Context, sourceURL string) (types.AudioArtifact, types.MediaMetadata, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, artifact types.AudioArtifact) (string, error)
}

type Extractor interface {
	ExtractIngredients(ctx context.Context, transcript string) ([]string, error)
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Pipeline chains acquisition, transcription and extraction for one
// source URL per Process call. Concurrent Process calls are independent.
type Pipeline struct {
	Acquirer    Acquirer
	Transcriber Transcriber
	Extractor   Extractor

	log *logrus.Entry
}

func New(a Acquirer, t Transcriber, e Extractor) *Pipeline {
	return &Pipeline{
		Acquirer:    a,
		Transcriber: t,
		Extractor:   e,
		log:         logger.New().WithField("module", "pipeline"),
	}
}

// Process runs the full chain. The first failing stage aborts the run
// and its error is returned wrapped in a StageError; there are no
// partial results.
func (p *Pipeline) Process(ctx context.Context, sourceURL string) (types.PipelineResult, error) {
	log := p.entry().WithField("source_url", sourceURL)

	log.WithField("state", string(StateAcquiring)).Info("acquiring audio")
	artifact, meta, err := p.Acquirer.Acquire(ctx, sourceURL)
	if err != nil {
		return fail(log, StageAcquire, err)
	}

	log.WithField("state", string(StateTranscribing)).
		WithField("locator", artifact.Locator.String()).
		Info("transcribing audio")
	transcript, err := p.Transcriber.Transcribe(ctx, artifact)
	if err != nil {
		return fail(log, StageTranscribe, err)
	}

	log.WithField("state", string(StateExtracting)).Info("extracting ingredients and summary")

	// The two sub-calls are independent and may overlap; both must
	// succeed for the run to succeed.
	var (
		rawLines []string
		summary  string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lines, err := p.Extractor.ExtractIngredients(gctx, transcript)
		if err != nil {
			return err
		}
		rawLines = lines
		return nil
	})
	g.Go(func() error {
		s, err := p.Extractor.Summarize(gctx, transcript)
		if err != nil {
			return err
		}
		summary = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return fail(log, StageExtract, err)
	}

	ingredients, suggestions := extract.PartitionIngredients(rawLines)

	log.WithField("state", string(StateDone)).Info("pipeline finished")
	return types.PipelineResult{
		MediaMetadata: meta,
		ExtractionResult: types.ExtractionResult{
			Ingredients:      ingredients,
			OrderSuggestions: suggestions,
			Summary:          summary,
		},
	}, nil
}

func (p *Pipeline) entry() *logrus.Entry {
	if p.log != nil {
		return p.log
	}
	return logger.New().WithField("module", "pipeline")
}

func fail(log *logrus.Entry, stage Stage, err error) (types.PipelineResult, error) {
	log.WithField("state", string(StateFailed)).
		WithField("stage", string(stage)).
		WithField("error", err.Error()).
		Warn("pipeline stage failed")
	return types.PipelineResult{}, &StageError{Stage: stage, Err: err}
}

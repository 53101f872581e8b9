package types

import "recipe-insights-go/internal/storage"

// MediaMetadata describes the source video. It is captured once during
// acquisition and carried through the pipeline untouched.
type MediaMetadata struct {
	Title     string `json:"videoTitle"`
	Author    string `json:"channelName"`
	ViewCount int64  `json:"videoViews"`
}

// AudioArtifact points at the staged audio blob in the object store.
type AudioArtifact struct {
	Locator     storage.Locator `json:"locator"`
	ContentType string          `json:"content_type"`
}

// ExtractionResult holds the model outputs for one transcript. Ingredients
// and OrderSuggestions are the two halves of the ingredient response,
// split at the sentinel line.
type ExtractionResult struct {
	Ingredients      []string `json:"ingredients"`
	OrderSuggestions []string `json:"orderSuggestions"`
	Summary          string   `json:"summary"`
}

// PipelineResult is the terminal value returned to the caller. The
// transcript itself is transient and not retained here.
type PipelineResult struct {
	MediaMetadata
	ExtractionResult
}

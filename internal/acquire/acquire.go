package acquire

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"recipe-insights-go/internal/logger"
	"recipe-insights-go/internal/storage"
	"recipe-insights-go/internal/types"
)

// ErrSourceGone reports that the video no longer exists upstream. Callers
// check it with errors.Is to map the failure to a distinct status.
var ErrSourceGone = errors.New("source video is no longer available")

// MediaInfo is what the media source reports about a video before any
// media is fetched.
type MediaInfo struct {
	Title     string
	Author    string
	ViewCount int64
}

// MediaSource resolves a video URL to metadata and an audio file. Probe
// and Fetch are separate operations so the acquisition mechanism stays
// swappable without touching the acquirer.
type MediaSource interface {
	// Probe resolves metadata without fetching media.
	Probe(ctx context.Context, sourceURL string) (MediaInfo, error)
	// Fetch writes the best available audio-only stream, transcoded to
	// mp3, to dstPath.
	Fetch(ctx context.Context, sourceURL, dstPath string) error
}

// Acquirer produces a stored audio artifact plus metadata for a source
// URL. It does not retry and does not delete its local scratch files.
type Acquirer struct {
	source  MediaSource
	store   storage.Store
	scratch string
	log     *logrus.Entry
}

func New(source MediaSource, store storage.Store, scratchDir string) *Acquirer {
	return &Acquirer{
		source:  source,
		store:   store,
		scratch: scratchDir,
		log:     logger.New().WithField("module", "acquire"),
	}
}

// Acquire resolves the source, writes an mp3 into a fresh scratch
// directory, uploads it, and returns the storage locator together with
// the video metadata.
func (a *Acquirer) Acquire(ctx context.Context, sourceURL string) (types.AudioArtifact, types.MediaMetadata, error) {
	if _, err := url.ParseRequestURI(sourceURL); err != nil {
		return types.AudioArtifact{}, types.MediaMetadata{}, fmt.Errorf("parsing source url: %w", err)
	}

	info, err := a.source.Probe(ctx, sourceURL)
	if err != nil {
		return types.AudioArtifact{}, types.MediaMetadata{}, fmt.Errorf("resolving video info: %w", err)
	}

	name := scratchName(info.Author, info.Title, time.Now())
	dir := filepath.Join(a.scratch, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return types.AudioArtifact{}, types.MediaMetadata{}, fmt.Errorf("creating scratch directory: %w", err)
	}

	log := a.log.WithField("source_url", sourceURL).WithField("scratch", name)
	log.Info("fetching audio stream")

	audioPath := filepath.Join(dir, "audio.mp3")
	if err := a.source.Fetch(ctx, sourceURL, audioPath); err != nil {
		return types.AudioArtifact{}, types.MediaMetadata{}, fmt.Errorf("fetching audio: %w", err)
	}

	key := path.Join("audio", name, "audio.mp3")
	loc, err := a.store.Put(ctx, audioPath, key)
	if err != nil {
		return types.AudioArtifact{}, types.MediaMetadata{}, fmt.Errorf("uploading audio: %w", err)
	}
	log.WithField("locator", loc.String()).Info("audio uploaded")

	meta := types.MediaMetadata{
		Title:     info.Title,
		Author:    info.Author,
		ViewCount: info.ViewCount,
	}
	return types.AudioArtifact{Locator: loc, ContentType: "audio/mpeg"}, meta, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9-_]`)

// scratchName builds a storage-safe unique name from author, title and
// timestamp. The uuid suffix keeps concurrent acquisitions of the same
// video in the same millisecond from colliding.
func scratchName(author, title string, now time.Time) string {
	base := fmt.Sprintf("%s_%s_%d", author, title, now.UnixMilli())
	return unsafeChars.ReplaceAllString(base, "_") + "_" + uuid.NewString()[:8]
}

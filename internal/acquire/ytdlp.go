package acquire

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// YtDlpSource fetches media through the yt-dlp binary and transcodes the
// audio with ffmpeg.
type YtDlpSource struct {
	YtDlpBin  string
	FfmpegBin string
}

func NewYtDlpSource(ytDlpBin, ffmpegBin string) *YtDlpSource {
	if ytDlpBin == "" {
		ytDlpBin = "yt-dlp"
	}
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	return &YtDlpSource{YtDlpBin: ytDlpBin, FfmpegBin: ffmpegBin}
}

type probeInfo struct {
	Title     string `json:"title"`
	Uploader  string `json:"uploader"`
	ViewCount int64  `json:"view_count"`
}

func (s *YtDlpSource) Probe(ctx context.Context, sourceURL string) (MediaInfo, error) {
	cmd := exec.CommandContext(ctx, s.YtDlpBin,
		"--dump-single-json",
		"--no-warnings",
		sourceURL,
	)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return MediaInfo{}, execErr("yt-dlp", err, stderr.String())
	}

	var info probeInfo
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		return MediaInfo{}, fmt.Errorf("yt-dlp metadata decode: %w", err)
	}
	return MediaInfo{
		Title:     info.Title,
		Author:    info.Uploader,
		ViewCount: info.ViewCount,
	}, nil
}

// Fetch downloads the best audio-only stream and re-encodes it to mp3 so
// transcription always sees one codec, whatever the source used natively.
func (s *YtDlpSource) Fetch(ctx context.Context, sourceURL, dstPath string) error {
	raw := dstPath + ".source"
	cmd := exec.CommandContext(ctx, s.YtDlpBin,
		"-f", "bestaudio",
		"--no-progress",
		"--no-warnings",
		"--output", raw,
		sourceURL,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return execErr("yt-dlp", err, stderr.String())
	}

	stderr.Reset()
	cmd = exec.CommandContext(ctx, s.FfmpegBin,
		"-y",
		"-i", raw,
		"-codec:a", "libmp3lame",
		dstPath,
	)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return execErr("ffmpeg", err, stderr.String())
	}
	return nil
}

// execErr normalizes a failed run, mapping the upstream extractor's gone
// responses to ErrSourceGone.
func execErr(bin string, err error, stderr string) error {
	if strings.Contains(stderr, "HTTP Error 410") || strings.Contains(stderr, "no longer available") {
		return fmt.Errorf("%s: %w", bin, ErrSourceGone)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s: exit code %d: %s", bin, exitErr.ExitCode(), strings.TrimSpace(stderr))
	}
	return fmt.Errorf("%s: %w", bin, err)
}

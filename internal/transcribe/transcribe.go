package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"recipe-insights-go/internal/logger"
	"recipe-insights-go/internal/storage"
	"recipe-insights-go/internal/types"
)

var httpClient = &http.Client{Timeout: 5 * time.Minute}

// Client submits staged audio to a speech-to-text provider and returns
// the transcript text. One synchronous request per call, no retry, no
// chunking of long audio.
type Client struct {
	Endpoint string
	APIKey   string
	Model    string
	Store    storage.Store

	log *logrus.Entry
}

func New(endpoint, apiKey, model string, store storage.Store) *Client {
	return &Client{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Model:    model,
		Store:    store,
		log:      logger.New().WithField("module", "transcribe"),
	}
}

type transcriptionResponse struct {
	Text *string `json:"text"`
}

// Transcribe stages the artifact into a fresh per-call scratch directory,
// streams it as multipart form content to the provider and returns the
// transcript. The scratch directory is removed on exit.
func (c *Client) Transcribe(ctx context.Context, artifact types.AudioArtifact) (string, error) {
	dir, err := os.MkdirTemp("", "transcribe-*")
	if err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	localPath := filepath.Join(dir, "audio.mp3")
	if err := c.Store.Get(ctx, artifact.Locator, localPath); err != nil {
		return "", fmt.Errorf("staging audio: %w", err)
	}

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	part, err := w.CreateFormFile("file", "audio.mp3")
	if err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("opening staged audio: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		f.Close()
		return "", fmt.Errorf("reading staged audio: %w", err)
	}
	f.Close()
	w.WriteField("model", c.Model)
	_ = w.Close()

	if c.log != nil {
		c.log.WithField("locator", artifact.Locator.String()).Info("submitting audio for transcription")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, &b)
	if err != nil {
		return "", fmt.Errorf("building transcription request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("transcription provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("transcription decode error: %v body=%s", err, string(body))
	}
	if parsed.Text == nil {
		return "", fmt.Errorf("transcription response missing text field: %s", strings.TrimSpace(string(body)))
	}
	return *parsed.Text, nil
}

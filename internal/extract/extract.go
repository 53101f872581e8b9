package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"recipe-insights-go/internal/logger"
)

var httpClient = &http.Client{Timeout: 2 * time.Minute}

const (
	systemPrompt = "You are a helpful assistant."

	ingredientMaxTokens = 300
	summaryMaxTokens    = 4000
	temperature         = 0.7
	topP                = 1.0
)

// Client issues fixed prompts against a chat-completions provider. The
// transcript is embedded verbatim; long transcripts are the caller's
// risk. No retries.
type Client struct {
	Endpoint string
	APIKey   string
	Model    string

	log *logrus.Entry
}

func New(endpoint, apiKey, model string) *Client {
	return &Client{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Model:    model,
		log:      logger.New().WithField("module", "extract"),
	}
}

// ExtractIngredients asks the model for the transcript's ingredient list
// plus purchasable-item suggestions and returns the raw response lines.
// Partitioning at the sentinel is left to PartitionIngredients.
func (c *Client) ExtractIngredients(ctx context.Context, transcript string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Extract the list of ingredients from the following recipe transcript and suggest items to order from Instacart or Amazon:\n\n%s\n\nIngredients:",
		transcript,
	)
	if c.log != nil {
		c.log.WithField("transcript_chars", len(transcript)).Info("requesting ingredient extraction")
	}
	content, err := c.complete(ctx, prompt, ingredientMaxTokens)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimSpace(content), "\n"), nil
}

// Summarize asks the model for a concise step-by-step rewrite of the
// transcript, returned trimmed with its newline structure preserved.
func (c *Client) Summarize(ctx context.Context, transcript string) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following recipe transcript into clear and concise steps:\n\n%s\n\nSummary:",
		transcript,
	)
	if c.log != nil {
		c.log.WithField("transcript_chars", len(transcript)).Info("requesting summary")
	}
	content, err := c.complete(ctx, prompt, summaryMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	N           int           `json:"n"`
	Stop        interface{}   `json:"stop"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
		N:           1,
		Stop:        nil,
	}
	data, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("completion provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("completion decode error: %v body=%s", err, string(body))
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("completion response missing content: %s", strings.TrimSpace(string(body)))
	}
	return *parsed.Choices[0].Message.Content, nil
}

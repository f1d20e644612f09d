// Package generate produces the day's historical events by calling the
// Anthropic Messages API and parsing the structured JSON it returns.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dgallion1/onthisday/internal/history"
)

const messagesURL = "https://api.anthropic.com/v1/messages"

// Client calls the Anthropic Messages API for event generation.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(apiKey, model string, log *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: messagesURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		log: log,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type wireEvent struct {
	Region       string `json:"region"`
	Title        string `json:"title"`
	Year         string `json:"year"`
	Teaser       string `json:"teaser"`
	Body         string `json:"body"`
	WikipediaURL string `json:"wikipedia_url"`
	SearchQuery  string `json:"wikimedia_search_query"`
}

type digestResponse struct {
	Events []wireEvent `json:"events"`
}

// GenerateEvents asks Claude for the digest events for the given date.
// A malformed response is fatal; individual events that fail validation are
// dropped with a warning.
func (c *Client) GenerateEvents(ctx context.Context, date time.Time) ([]history.Event, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: 8000,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: userPrompt(date)},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("claude api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("claude api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("claude error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return nil, fmt.Errorf("empty response from claude")
	}

	text := stripCodeBlock(apiResp.Content[0].Text)

	var digest digestResponse
	if err := json.Unmarshal([]byte(text), &digest); err != nil {
		return nil, fmt.Errorf("parse events json: %w (raw: %s)", err, truncate(text, 200))
	}

	events := make([]history.Event, 0, len(digest.Events))
	for _, we := range digest.Events {
		ev, ok := validateEvent(we)
		if !ok {
			c.log.Warn("dropping invalid event", "region", we.Region, "title", we.Title)
			continue
		}
		events = append(events, ev)
	}

	c.log.Info("generated events", "count", len(events))
	for _, ev := range events {
		c.log.Info("event", "region", ev.Region, "title", ev.Title, "year", ev.Year)
	}
	return events, nil
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

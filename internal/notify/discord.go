// Package notify posts a digest summary to a Discord webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/onthisday/internal/history"
)

// MaxContentLength is the Discord message character limit.
const MaxContentLength = 2000

// Client posts digest summaries to a Discord webhook.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// PostDigest posts the day's summary with a link to the document.
func (c *Client) PostDigest(ctx context.Context, date time.Time, events []history.Event, docURL string) error {
	payload := map[string]string{"content": Summary(date, events, docURL)}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("post webhook: status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Summary renders the Discord message: bold date header, per-region bullets,
// and a trailing document link. The result never exceeds MaxContentLength
// and always retains the link.
func Summary(date time.Time, events []history.Event, docURL string) string {
	dateStr := date.Format("January 2, 2006")
	grouped := history.GroupByRegion(events)

	lines := []string{fmt.Sprintf("**On This Day — %s**\n", dateStr)}
	for _, region := range history.RegionOrder {
		regionEvents := grouped[region]
		if len(regionEvents) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("**%s**", region))
		for _, ev := range regionEvents {
			lines = append(lines, fmt.Sprintf("• **%s** (%s) — %s", ev.Title, ev.Year, ev.Teaser))
		}
		lines = append(lines, "") // blank line between regions
	}

	link := fmt.Sprintf("[Read the full digest →](%s)", docURL)
	content := strings.Join(append(lines, link), "\n")
	if len(content) <= MaxContentLength {
		return content
	}

	// Over the ceiling: cut at a line boundary that leaves room for the link.
	suffix := "\n\n" + link
	budget := MaxContentLength - len(suffix)
	body := strings.Join(lines, "\n")
	cutoff := strings.LastIndex(body[:budget], "\n")
	if cutoff < 0 {
		cutoff = budget
	}
	return body[:cutoff] + suffix
}

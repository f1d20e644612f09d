// Package wikimedia finds Commons images for event search queries.
// Lookups are best-effort: a run proceeds without an image when nothing
// suitable is found.
package wikimedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const commonsAPI = "https://commons.wikimedia.org/w/api.php"

// Files larger than this get rejected by the document service.
const maxImageBytes = 25_000_000

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Client queries the Wikimedia Commons API. Commons policy requires a
// descriptive User-Agent naming a contact point.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewClient(userAgent string) *Client {
	return &Client{
		baseURL:   commonsAPI,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"` // e.g. "File:Julius Caesar.jpg"
		} `json:"search"`
	} `json:"query"`
}

type imageInfoResponse struct {
	Query struct {
		Pages map[string]struct {
			ImageInfo []struct {
				URL  string `json:"url"`
				Mime string `json:"mime"`
				Size int64  `json:"size"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

// FindImage searches Commons for an image matching the query and returns a
// direct HTTPS URL to the file, or "" when nothing suitable exists.
func (c *Client) FindImage(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"list":        {"search"},
		"srnamespace": {"6"}, // File namespace only
		"srsearch":    {query},
		"format":      {"json"},
		"srlimit":     {"8"},
	}
	var result searchResponse
	if err := c.get(ctx, params, &result); err != nil {
		return "", fmt.Errorf("commons search %q: %w", query, err)
	}

	for _, hit := range result.Query.Search {
		fileURL, err := c.imageURL(ctx, hit.Title)
		if err != nil {
			return "", err
		}
		if fileURL != "" {
			return fileURL, nil
		}
	}
	return "", nil
}

// imageURL fetches the direct file URL for a Commons file page, or "" when
// the file is unsuitable (wrong mime type, oversized, non-https).
func (c *Client) imageURL(ctx context.Context, pageTitle string) (string, error) {
	params := url.Values{
		"action": {"query"},
		"prop":   {"imageinfo"},
		"iiprop": {"url|mime|size"},
		"titles": {pageTitle},
		"format": {"json"},
	}
	var result imageInfoResponse
	if err := c.get(ctx, params, &result); err != nil {
		return "", fmt.Errorf("commons imageinfo %q: %w", pageTitle, err)
	}

	for _, page := range result.Query.Pages {
		for _, info := range page.ImageInfo {
			if !allowedMimeTypes[info.Mime] {
				continue
			}
			if info.Size > maxImageBytes {
				continue
			}
			if len(info.URL) >= 8 && info.URL[:8] == "https://" {
				return info.URL, nil
			}
		}
	}
	return "", nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Close releases any resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

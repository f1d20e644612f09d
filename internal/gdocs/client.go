// Package gdocs implements the compose.DocumentService against the Google
// Docs and Drive APIs using a refresh-token OAuth session.
package gdocs

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/dgallion1/onthisday/internal/compose"
)

// Config holds the OAuth client credentials and target folder.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	FolderID     string
}

// Client is a Docs+Drive session scoped to one set of credentials.
type Client struct {
	docs     *docs.Service
	drive    *drive.Service
	folderID string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
	}
	ts := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = 60 * time.Second

	docsSvc, err := docs.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("docs service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	return &Client{
		docs:     docsSvc,
		drive:    driveSvc,
		folderID: cfg.FolderID,
	}, nil
}

// CreateDocument creates a blank Google Doc and makes it readable by anyone
// with the link. Creating through Drive rather than Docs lets the parent
// folder be set in the same call.
func (c *Client) CreateDocument(ctx context.Context, title string) (string, error) {
	meta := &drive.File{
		Name:     title,
		MimeType: "application/vnd.google-apps.document",
	}
	if c.folderID != "" {
		meta.Parents = []string{c.folderID}
	}

	file, err := c.drive.Files.Create(meta).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}

	_, err = c.drive.Permissions.Create(file.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("share document %s: %w", file.Id, err)
	}

	return file.Id, nil
}

func (c *Client) InsertText(ctx context.Context, docID string, index int64, text string) error {
	req := &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: index},
			Text:     text,
		},
	}
	if err := c.batchUpdate(ctx, docID, []*docs.Request{req}); err != nil {
		return fmt.Errorf("insert text: %w", err)
	}
	return nil
}

func (c *Client) ApplyStyles(ctx context.Context, docID string, ops []compose.StyleOp) error {
	reqs := make([]*docs.Request, 0, len(ops))
	for _, op := range ops {
		reqs = append(reqs, styleRequest(op))
	}
	if err := c.batchUpdate(ctx, docID, reqs); err != nil {
		return fmt.Errorf("apply styles: %w", err)
	}
	return nil
}

func (c *Client) InsertImage(ctx context.Context, docID string, index int64, url string, widthPt, heightPt float64) error {
	req := &docs.Request{
		InsertInlineImage: &docs.InsertInlineImageRequest{
			Location: &docs.Location{Index: index},
			Uri:      url,
			ObjectSize: &docs.Size{
				Height: &docs.Dimension{Magnitude: heightPt, Unit: "PT"},
				Width:  &docs.Dimension{Magnitude: widthPt, Unit: "PT"},
			},
		},
	}
	if err := c.batchUpdate(ctx, docID, []*docs.Request{req}); err != nil {
		return fmt.Errorf("insert image at %d: %w", index, err)
	}
	return nil
}

func (c *Client) DocumentURL(docID string) string {
	return "https://docs.google.com/document/d/" + docID + "/edit"
}

func (c *Client) batchUpdate(ctx context.Context, docID string, reqs []*docs.Request) error {
	_, err := c.docs.Documents.BatchUpdate(docID, &docs.BatchUpdateDocumentRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	return err
}

package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/onthisday/internal/compose"
	"github.com/dgallion1/onthisday/internal/history"
)

var march15 = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeGenerator struct {
	events []history.Event
	err    error
}

func (g *fakeGenerator) GenerateEvents(ctx context.Context, date time.Time) ([]history.Event, error) {
	return g.events, g.err
}

type fakeImages struct {
	urls    map[string]string
	failAll bool
}

func (f *fakeImages) FindImage(ctx context.Context, query string) (string, error) {
	if f.failAll {
		return "", errors.New("commons unavailable")
	}
	return f.urls[query], nil
}

type fakeDocs struct {
	insertedText string
	imageURLs    []string
	failText     bool
}

func (f *fakeDocs) CreateDocument(ctx context.Context, title string) (string, error) {
	return "doc-1", nil
}

func (f *fakeDocs) InsertText(ctx context.Context, docID string, index int64, text string) error {
	if f.failText {
		return errors.New("text refused")
	}
	f.insertedText = text
	return nil
}

func (f *fakeDocs) ApplyStyles(ctx context.Context, docID string, ops []compose.StyleOp) error {
	return nil
}

func (f *fakeDocs) InsertImage(ctx context.Context, docID string, index int64, url string, w, h float64) error {
	f.imageURLs = append(f.imageURLs, url)
	return nil
}

func (f *fakeDocs) DocumentURL(docID string) string {
	return "https://docs.example.com/" + docID
}

type fakeNotifier struct {
	posted  bool
	lastURL string
	err     error
}

func (n *fakeNotifier) PostDigest(ctx context.Context, date time.Time, events []history.Event, docURL string) error {
	n.posted = true
	n.lastURL = docURL
	return n.err
}

func sampleEvents() []history.Event {
	return []history.Event{
		{
			Region:      history.AncientRome,
			Title:       "The Ides of March",
			Year:        "44 BC",
			Body:        "Para one.\n\nPara two.",
			SearchQuery: "roman senate fresco",
		},
		{
			Region: history.Japan,
			Title:  "Sekigahara",
			Year:   "1600",
			Body:   "Rain.",
		},
	}
}

func TestRun_FullPipeline(t *testing.T) {
	docs := &fakeDocs{}
	notifier := &fakeNotifier{}
	images := &fakeImages{urls: map[string]string{"roman senate fresco": "https://img/rome.jpg"}}
	r := NewRunner(&fakeGenerator{events: sampleEvents()}, images, docs, notifier, testLogger(), Options{})

	report, err := r.Run(context.Background(), march15)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.DocURL != "https://docs.example.com/doc-1" {
		t.Errorf("doc URL = %q", report.DocURL)
	}
	if report.Events != 2 {
		t.Errorf("events = %d", report.Events)
	}
	if docs.insertedText == "" {
		t.Error("no text was inserted")
	}
	if len(docs.imageURLs) != 1 || docs.imageURLs[0] != "https://img/rome.jpg" {
		t.Errorf("image insertions = %v", docs.imageURLs)
	}
	if !notifier.posted || notifier.lastURL != report.DocURL {
		t.Errorf("notification: posted=%v url=%q", notifier.posted, notifier.lastURL)
	}
}

func TestRun_GenerationFailureIsFatal(t *testing.T) {
	notifier := &fakeNotifier{}
	r := NewRunner(&fakeGenerator{err: errors.New("api down")}, nil, &fakeDocs{}, notifier, testLogger(), Options{})

	if _, err := r.Run(context.Background(), march15); err == nil {
		t.Fatal("expected error")
	}
	if notifier.posted {
		t.Error("no notification may be posted for an aborted run")
	}
}

func TestRun_NoEvents(t *testing.T) {
	r := NewRunner(&fakeGenerator{}, nil, &fakeDocs{}, &fakeNotifier{}, testLogger(), Options{})
	_, err := r.Run(context.Background(), march15)
	if !errors.Is(err, ErrNoEvents) {
		t.Fatalf("err = %v, want ErrNoEvents", err)
	}
}

func TestRun_ImageLookupFailureDegrades(t *testing.T) {
	docs := &fakeDocs{}
	images := &fakeImages{failAll: true}
	r := NewRunner(&fakeGenerator{events: sampleEvents()}, images, docs, &fakeNotifier{}, testLogger(), Options{})

	report, err := r.Run(context.Background(), march15)
	if err != nil {
		t.Fatalf("image lookup failure must not abort the run: %v", err)
	}
	if len(docs.imageURLs) != 0 {
		t.Errorf("no images should have been inserted, got %v", docs.imageURLs)
	}
	if report.Events != 2 {
		t.Errorf("events = %d", report.Events)
	}
}

func TestRun_PublishFailureIsFatal(t *testing.T) {
	notifier := &fakeNotifier{}
	r := NewRunner(&fakeGenerator{events: sampleEvents()}, nil, &fakeDocs{failText: true}, notifier, testLogger(), Options{})

	if _, err := r.Run(context.Background(), march15); err == nil {
		t.Fatal("expected error")
	}
	if notifier.posted {
		t.Error("no notification may reference a document that failed to build")
	}
}

func TestRun_DryRunSkipsRemoteCalls(t *testing.T) {
	docs := &fakeDocs{}
	notifier := &fakeNotifier{}
	r := NewRunner(&fakeGenerator{events: sampleEvents()}, nil, docs, notifier, testLogger(), Options{DryRun: true})

	report, err := r.Run(context.Background(), march15)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if docs.insertedText != "" {
		t.Error("dry run must not touch the document service")
	}
	if notifier.posted {
		t.Error("dry run must not notify")
	}
	if report.DocURL != "" {
		t.Errorf("dry run report has doc URL %q", report.DocURL)
	}
}

func TestRun_DryRunWritesPreview(t *testing.T) {
	previewPath := filepath.Join(t.TempDir(), "digest.html")
	r := NewRunner(&fakeGenerator{events: sampleEvents()}, nil, nil, &fakeNotifier{}, testLogger(),
		Options{DryRun: true, PreviewPath: previewPath})

	if _, err := r.Run(context.Background(), march15); err != nil {
		t.Fatalf("Run: %v", err)
	}
	info, err := os.Stat(previewPath)
	if err != nil {
		t.Fatalf("preview not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("preview file is empty")
	}
}

// Package pipeline orchestrates a digest run: generate events, attach
// images, compose the document plan, publish it, and notify.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/onthisday/internal/compose"
	"github.com/dgallion1/onthisday/internal/export"
	"github.com/dgallion1/onthisday/internal/history"
)

// ErrNoEvents means generation succeeded but produced nothing to publish.
var ErrNoEvents = errors.New("no events generated for this date")

// Generator produces the day's events.
type Generator interface {
	GenerateEvents(ctx context.Context, date time.Time) ([]history.Event, error)
}

// ImageFinder maps a search query to an image URL, "" when none suits.
type ImageFinder interface {
	FindImage(ctx context.Context, query string) (string, error)
}

// Notifier renders the short digest summary.
type Notifier interface {
	PostDigest(ctx context.Context, date time.Time, events []history.Event, docURL string) error
}

// Options tunes a Runner beyond its collaborators.
type Options struct {
	StyleBatchSize int
	PreviewPath    string // when set, write an HTML preview of the plan
	DocxPath       string // when set, write a .docx archive of the plan
	DryRun         bool   // compose and export only: no remote calls, no notification
}

// Runner executes one digest run end to end. Runs for different dates are
// independent and share no state.
type Runner struct {
	gen      Generator
	images   ImageFinder
	docs     compose.DocumentService
	notifier Notifier
	log      *slog.Logger
	opts     Options
}

func NewRunner(gen Generator, images ImageFinder, docs compose.DocumentService, notifier Notifier, log *slog.Logger, opts Options) *Runner {
	return &Runner{
		gen:      gen,
		images:   images,
		docs:     docs,
		notifier: notifier,
		log:      log,
		opts:     opts,
	}
}

// Report summarizes a completed run.
type Report struct {
	DocURL       string
	Events       int
	ImagesPlaced int
	ImagesFailed int
}

// Run builds and publishes the digest for one date. Generation and
// publishing failures abort the run; image lookups and insertions degrade
// per event instead.
func (r *Runner) Run(ctx context.Context, date time.Time) (*Report, error) {
	log := r.log.With("date", date.Format("2006-01-02"))
	log.Info("starting digest run")

	events, err := r.gen.GenerateEvents(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("generate events: %w", err)
	}
	if len(events) == 0 {
		return nil, ErrNoEvents
	}

	r.attachImages(ctx, log, events)

	plan := compose.BuildPlan(date, events)
	log.Info("composed plan",
		"chars", len(plan.Text),
		"style_ops", len(plan.Styles),
		"image_slots", len(plan.Images),
	)

	if r.opts.PreviewPath != "" {
		if err := export.WriteHTML(r.opts.PreviewPath, plan); err != nil {
			return nil, fmt.Errorf("write preview: %w", err)
		}
		log.Info("wrote preview", "path", r.opts.PreviewPath)
	}
	if r.opts.DocxPath != "" {
		if err := export.WriteDocx(r.opts.DocxPath, plan); err != nil {
			return nil, fmt.Errorf("write docx archive: %w", err)
		}
		log.Info("wrote docx archive", "path", r.opts.DocxPath)
	}

	if r.opts.DryRun {
		log.Info("dry run: skipping publish and notification")
		return &Report{Events: len(events), ImagesPlaced: 0}, nil
	}

	dispatcher := compose.NewDispatcher(r.docs, r.log, r.opts.StyleBatchSize)
	result, err := dispatcher.Publish(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	failed := result.FailedImages()
	log.Info("document ready", "url", result.URL, "images_failed", failed)

	if err := r.notifier.PostDigest(ctx, date, events, result.URL); err != nil {
		return nil, fmt.Errorf("post digest: %w", err)
	}
	log.Info("digest complete")

	return &Report{
		DocURL:       result.URL,
		Events:       len(events),
		ImagesPlaced: len(result.Images) - failed,
		ImagesFailed: failed,
	}, nil
}

// attachImages resolves each event's search query to an image URL. Failures
// degrade to a missing image, never to an aborted run.
func (r *Runner) attachImages(ctx context.Context, log *slog.Logger, events []history.Event) {
	if r.images == nil {
		return
	}
	for i := range events {
		query := events[i].SearchQuery
		if query == "" {
			continue
		}
		url, err := r.images.FindImage(ctx, query)
		if err != nil {
			log.Warn("image lookup failed", "query", query, "error", err)
			continue
		}
		if url == "" {
			log.Warn("no suitable image", "query", query)
			continue
		}
		events[i].ImageURL = url
	}
}

package compose

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// DocumentService is the remote rich-text document API the dispatcher drives.
// Each call may fail with a transport or service error.
type DocumentService interface {
	CreateDocument(ctx context.Context, title string) (string, error)
	InsertText(ctx context.Context, docID string, index int64, text string) error
	ApplyStyles(ctx context.Context, docID string, ops []StyleOp) error
	InsertImage(ctx context.Context, docID string, index int64, url string, widthPt, heightPt float64) error
	DocumentURL(docID string) string
}

// ImageResult is the outcome of a single inline image insertion. A failed
// slot does not affect the others.
type ImageResult struct {
	Slot ImageSlot
	Err  error
}

// Result is what Publish hands back to the caller, which decides whether
// partial image failure is acceptable.
type Result struct {
	DocID  string
	URL    string
	Images []ImageResult
}

// FailedImages counts slots whose insertion failed.
func (r *Result) FailedImages() int {
	var n int
	for _, img := range r.Images {
		if img.Err != nil {
			n++
		}
	}
	return n
}

// Dispatcher issues a plan's edits against a DocumentService in three
// strictly ordered phases: one text insertion, then the style operations in
// original order chunked to the batch ceiling, then image insertions.
//
// Invariant: mutating insertions (images) are applied in strictly decreasing
// offset order. Inserting an inline object at offset o shifts every character
// at or after o, so descending order guarantees that every not-yet-processed
// slot's offset is still valid when its turn comes. Ascending order would
// silently corrupt all remaining offsets.
type Dispatcher struct {
	svc       DocumentService
	log       *slog.Logger
	batchSize int
}

func NewDispatcher(svc DocumentService, log *slog.Logger, batchSize int) *Dispatcher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Dispatcher{svc: svc, log: log, batchSize: batchSize}
}

// Publish creates the remote document and executes the plan against it.
// A failure during document creation, text insertion, or styling aborts the
// run; image failures are isolated per slot and reported in the Result.
// A plan is not safely re-publishable once its text has been inserted.
func (d *Dispatcher) Publish(ctx context.Context, plan *Plan) (*Result, error) {
	docID, err := d.svc.CreateDocument(ctx, plan.Title)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	d.log.Info("created document", "doc_id", docID)

	// Phase 1: the entire text buffer in one call. Styling and image offsets
	// are only valid once this text exists.
	if err := d.svc.InsertText(ctx, docID, BodyStart, plan.Text); err != nil {
		return nil, fmt.Errorf("insert text: %w", err)
	}
	d.log.Info("inserted text", "doc_id", docID, "chars", len(plan.Text))

	// Phase 2: style operations in original order, chunked to the ceiling.
	// Style ops never alter offsets, so chunk boundaries carry no meaning
	// beyond the request-size limit.
	for start := 0; start < len(plan.Styles); start += d.batchSize {
		end := min(start+d.batchSize, len(plan.Styles))
		if err := d.svc.ApplyStyles(ctx, docID, plan.Styles[start:end]); err != nil {
			return nil, fmt.Errorf("apply styles [%d:%d): %w", start, end, err)
		}
	}
	if len(plan.Styles) > 0 {
		d.log.Info("applied styles", "doc_id", docID, "ops", len(plan.Styles))
	}

	// Phase 3: images, highest offset first.
	slots := slices.Clone(plan.Images)
	slices.SortFunc(slots, func(a, b ImageSlot) int {
		return cmp.Compare(b.Offset, a.Offset)
	})

	res := &Result{DocID: docID, URL: d.svc.DocumentURL(docID)}
	for _, slot := range slots {
		err := d.svc.InsertImage(ctx, docID, slot.Offset, slot.URL, ImageWidthPt, ImageHeightPt)
		if err != nil {
			d.log.Error("image insertion failed", "doc_id", docID, "offset", slot.Offset, "url", slot.URL, "error", err)
		} else {
			d.log.Info("inserted image", "doc_id", docID, "offset", slot.Offset)
		}
		res.Images = append(res.Images, ImageResult{Slot: slot, Err: err})
	}

	return res, nil
}

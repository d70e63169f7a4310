package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/statseg/internal/citation"
	"github.com/dgallion1/statseg/internal/config"
	"github.com/dgallion1/statseg/internal/hierarchy"
	"github.com/dgallion1/statseg/internal/lawstore"
	"github.com/dgallion1/statseg/internal/source"
)

// Worker processes a single section ingestion job.
type Worker struct {
	store *lawstore.Client
	log   *slog.Logger
	cfg   config.Config
}

func NewWorker(store *lawstore.Client, log *slog.Logger, cfg config.Config) *Worker {
	return &Worker{
		store: store,
		log:   log,
		cfg:   cfg,
	}
}

// Process runs the full ingest pipeline for a job: extract text, tokenize
// citations, segment, verify the round trip, and store the flat records.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "section_id", job.SectionID)

	// Phase 1: extract text from the upload.
	job.SetStatus(StatusExtracting, "extracting")
	ex, err := source.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	if p, ok := ex.(*source.PDFExtractor); ok {
		p.FallbackPdftotext = w.cfg.PDFFallbackPdftotext
	}

	text, err := ex.Extract(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	if strings.TrimSpace(text) == "" {
		log.Warn("no extractable text")
		job.AddError("no extractable text")
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	// Phase 2: tokenize citations, then segment. Citations go first so
	// parenthesized cross-references cannot masquerade as markers.
	job.SetStatus(StatusSegmenting, "segmenting")
	cited := citation.Tokenize(text)
	res := hierarchy.Segment(job.SectionID, cited.Text)
	job.SetTotalSubunits(len(res.Records))
	log.Info("segmented section", "subunits", len(res.Records))

	// Phase 3: verify that records reconstitute the input.
	job.SetStatus(StatusVerifying, "verifying")
	vr := hierarchy.Verify(res.SectionText, res.Records, cited.Text, w.cfg.MaxExpandDepth)
	job.SetVerified(vr.OK)
	if !vr.OK {
		log.Warn("verification failed",
			"diff_index", vr.DiffIndex,
			"unresolved", vr.Unresolved,
			"depth_exceeded", vr.DepthExceeded,
			"context", vr.Context)
		job.AddError(fmt.Sprintf("verification failed: %s", vr.Context))
		if !w.cfg.FallbackUnsegmented {
			job.SetStatus(StatusFailed, "verifying")
			return
		}
		w.storeUnsegmented(ctx, log, job, text)
		return
	}

	// Phase 4: store the section record and flat subunit records.
	job.SetStatus(StatusStoring, "storing")
	secReq, subs := BuildStoreRequests(job.Heading, res, cited.Refs)
	secReq.Source = "upload:" + job.Filename

	if err := w.withRetry(ctx, log, "section", func(ctx context.Context) error {
		return w.store.PutSection(ctx, job.SectionID, secReq)
	}); err != nil {
		log.Error("section store failed", "error", err)
		job.AddError(fmt.Sprintf("store section: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	sem := make(chan struct{}, w.cfg.MaxConcurrentStore)
	type storeResult struct {
		id  string
		err error
	}
	results := make(chan storeResult, len(subs))

	for _, sub := range subs {
		sem <- struct{}{}
		go func(sub StoredSubunit) {
			defer func() { <-sem }()
			err := w.withRetry(ctx, log, sub.ID, func(ctx context.Context) error {
				return w.store.PutSubunit(ctx, job.SectionID, sub.ID, sub.Req)
			})
			results <- storeResult{id: sub.ID, err: err}
		}(sub)
	}

	hadErrors := false
	for range subs {
		r := <-results
		if r.err != nil {
			log.Error("subunit store failed", "subunit", r.id, "error", r.err)
			job.AddError(fmt.Sprintf("store %s: %s", r.id, r.err))
			hadErrors = true
			continue
		}
		job.AddStored(1)
	}

	log.Info("storage complete", "stored", job.Snapshot().Progress.SubunitsStored, "total", len(subs))
	if hadErrors {
		job.SetStatus(StatusPartial, "done")
		return
	}
	job.SetStatus(StatusCompleted, "done")
}

// storeUnsegmented stores the original extracted text as a single unverified
// section record so nothing is lost when segmentation cannot be trusted.
func (w *Worker) storeUnsegmented(ctx context.Context, log *slog.Logger, job *Job, text string) {
	job.SetStatus(StatusStoring, "storing")
	err := w.withRetry(ctx, log, "section", func(ctx context.Context) error {
		return w.store.PutSection(ctx, job.SectionID, lawstore.SectionRequest{
			Heading:  job.Heading,
			Text:     text,
			Verified: false,
			Source:   "upload:" + job.Filename,
		})
	})
	if err != nil {
		log.Error("unsegmented store failed", "error", err)
		job.AddError(fmt.Sprintf("store unsegmented: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}
	log.Info("stored unsegmented section")
	job.SetStatus(StatusUnsegmented, "done")
}

// withRetry runs fn up to MaxRetries times, backing off between retryable
// failures.
func (w *Worker) withRetry(ctx context.Context, log *slog.Logger, what string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable store error", "target", what, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// StoredSubunit pairs a subunit's store identifier with its request body.
type StoredSubunit struct {
	ID  string
	Req lawstore.SubunitRequest
}

// BuildStoreRequests converts a segmentation result into persistence
// payloads. Subunits are identified by their dotted marker path, parents by
// the path one segment shorter, and citation tokens are expanded back to
// their original reference text on the way out.
func BuildStoreRequests(heading string, res hierarchy.Result, refs map[string]string) (lawstore.SectionRequest, []StoredSubunit) {
	sec := lawstore.SectionRequest{
		Heading:  heading,
		Text:     citation.Expand(res.SectionText, refs),
		Verified: true,
	}
	subs := make([]StoredSubunit, 0, len(res.Records))
	for _, rec := range res.Records {
		subs = append(subs, StoredSubunit{
			ID: rec.Marker,
			Req: lawstore.SubunitRequest{
				Type:     rec.Type,
				ParentID: parentMarker(rec.Marker),
				Marker:   rec.Marker,
				SortKey:  rec.SortKey,
				Text:     citation.Expand(rec.Text, refs),
			},
		})
	}
	return sec, subs
}

// parentMarker drops the last path segment; top-level subunits have no
// parent beyond the section itself.
func parentMarker(marker string) string {
	if i := strings.LastIndexByte(marker, '.'); i >= 0 {
		return marker[:i]
	}
	return ""
}

package poster

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"inspiration-poster-server/modules/credential"
	"inspiration-poster-server/modules/theme"
)

// ContentProvider - text generation capability (opaque remote call)
type ContentProvider interface {
	GenerateDailyContent(ctx context.Context, apiKey string, date time.Time, th theme.Theme) (*DailyContent, error)
}

// ImageProvider - image generation capability. Receives the generated content
// so the background derives from the same run's quote.
type ImageProvider interface {
	GeneratePosterImage(ctx context.Context, apiKey string, content *DailyContent, th theme.Theme) (string, error)
}

// StatusSink - observer of status transitions (websocket hub, job store).
// Only the workflow writes transitions.
type StatusSink interface {
	OnStatus(runID string, status Status)
}

// Workflow - sequences text generation, image generation and finalization
// for one poster run. Single-flight: starting a run while another is active
// is rejected, not queued.
type Workflow struct {
	content       ContentProvider
	image         ImageProvider
	creds         credential.Reader
	sink          StatusSink
	finalizeDelay time.Duration

	// sleep is swapped out in tests to skip the pacing hold
	sleep func(time.Duration)

	mu     sync.Mutex
	active bool
	status Status
}

// NewWorkflow - wire a workflow; sink may be nil
func NewWorkflow(content ContentProvider, image ImageProvider, creds credential.Reader, sink StatusSink, finalizeDelay time.Duration) *Workflow {
	return &Workflow{
		content:       content,
		image:         image,
		creds:         creds,
		sink:          sink,
		finalizeDelay: finalizeDelay,
		sleep:         time.Sleep,
		status:        StatusIdle,
	}
}

// Status - current process-wide generation status
func (w *Workflow) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// setStatus - the only writer of status transitions
func (w *Workflow) setStatus(runID string, status Status) {
	w.mu.Lock()
	w.status = status
	w.mu.Unlock()

	log.Printf("🔁 [Workflow] Run %s → %s", runID, status)
	if w.sink != nil {
		w.sink.OnStatus(runID, status)
	}
}

// Generate - run the full text → image → finalize pipeline and return the
// assembled poster record. Strictly sequential: the image prompt is derived
// from the text result, so the content call must finish first.
func (w *Workflow) Generate(ctx context.Context, date time.Time, th theme.Theme) (*PosterRecord, error) {
	return w.GenerateWithCancel(ctx, date, th, nil)
}

// GenerateWithCancel - Generate with a cancellation probe checked between
// stages. A cancelled run never reaches complete and never returns a record;
// whatever the in-flight provider produced is discarded.
func (w *Workflow) GenerateWithCancel(ctx context.Context, date time.Time, th theme.Theme, cancelled func() bool) (*PosterRecord, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("invalid date")
	}
	if _, err := theme.Parse(string(th)); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}

	// Single-flight guard. UI disabling of the trigger is not a safety
	// invariant; the precondition lives here.
	w.mu.Lock()
	if w.active {
		w.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	w.active = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.active = false
		w.mu.Unlock()
	}()

	runID := uuid.New().String()
	log.Printf("🚀 [Workflow] Run %s started (date: %s, theme: %s)", runID, date.Format("2006-01-02"), th)

	// Fail fast on a missing credential, before any network call, instead of
	// letting the provider surface an opaque auth error.
	apiKey, err := w.creds.Read(ctx)
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			w.fail(runID, ErrMissingCredential)
			return nil, ErrMissingCredential
		}
		w.fail(runID, err)
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}

	// Step 1: text generation
	w.setStatus(runID, StatusGeneratingText)
	content, err := w.content.GenerateDailyContent(ctx, apiKey, date, th)
	if err != nil {
		w.fail(runID, err)
		return nil, err
	}
	if w.isCancelled(runID, cancelled) {
		return nil, ErrRunCancelled
	}

	// Structural completeness gate: a malformed result must not reach the
	// image prompt or the assembled record.
	if err := ValidateContent(content); err != nil {
		w.fail(runID, err)
		return nil, err
	}

	// Step 2: image generation, prompt derived from this run's quote
	w.setStatus(runID, StatusGeneratingImage)
	imageURL, err := w.image.GeneratePosterImage(ctx, apiKey, content, th)
	if err != nil {
		w.fail(runID, err)
		return nil, err
	}
	if w.isCancelled(runID, cancelled) {
		return nil, ErrRunCancelled
	}

	// Step 3: fixed UX pacing hold. Not a retry or backoff; nothing is
	// computed here.
	w.setStatus(runID, StatusFinalizing)
	w.sleep(w.finalizeDelay)
	if w.isCancelled(runID, cancelled) {
		return nil, ErrRunCancelled
	}

	// Step 4: assemble the immutable record
	record, err := AssembleRecord(*content, date, th, imageURL)
	if err != nil {
		w.fail(runID, err)
		return nil, err
	}

	w.setStatus(runID, StatusComplete)
	log.Printf("✅ [Workflow] Run %s complete", runID)
	return record, nil
}

// fail - abort the run; no partial record is ever produced
func (w *Workflow) fail(runID string, err error) {
	log.Printf("❌ [Workflow] Run %s failed: %v", runID, err)
	w.setStatus(runID, StatusError)
}

// isCancelled - probe the cancel flag between stages
func (w *Workflow) isCancelled(runID string, cancelled func() bool) bool {
	if cancelled == nil || !cancelled() {
		return false
	}
	log.Printf("🛑 [Workflow] Run %s cancelled, discarding result", runID)
	w.setStatus(runID, StatusError)
	return true
}

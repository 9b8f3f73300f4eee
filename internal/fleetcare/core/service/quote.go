package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"k8s.io/utils/clock"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/internal/pkg/metrics"
	"github.com/autopeer-io/fleetcare/pkg/log"
)

const (
	DefaultApprovalDelay = 3 * time.Second

	MaxDocuments    = 5
	MaxDocumentSize = 5 << 20
)

var errReviewerClosed = errors.New("quote reviewer is shut down")

// QuoteReviewer accepts quote requests and approves each one after a fixed
// delay. Every pending approval is a timer that can be cancelled.
type QuoteReviewer struct {
	quotes     core.QuoteRepository
	clock      core.Clock
	dispatcher core.Dispatcher
	delay      time.Duration

	mu      sync.Mutex
	pending map[string]clock.Timer
	closed  bool
	wg      sync.WaitGroup
}

func NewQuoteReviewer(quotes core.QuoteRepository, clk core.Clock, dispatcher core.Dispatcher, delay time.Duration) *QuoteReviewer {
	if delay <= 0 {
		delay = DefaultApprovalDelay
	}
	return &QuoteReviewer{
		quotes:     quotes,
		clock:      clk,
		dispatcher: dispatcher,
		delay:      delay,
		pending:    make(map[string]clock.Timer),
	}
}

// Submit validates and stores a new pending quote and schedules its approval.
func (r *QuoteReviewer) Submit(ctx context.Context, req model.QuoteRequest) (*model.Quote, error) {
	if err := validateQuoteRequest(&req); err != nil {
		return nil, err
	}

	q := &model.Quote{
		ID:                uuid.NewString(),
		Plate:             strings.TrimSpace(req.Plate),
		Model:             strings.TrimSpace(req.Model),
		Note:              req.Note,
		Documents:         req.Documents,
		Status:            model.QuoteStatusPending,
		CreatedAt:         r.clock.Now(),
		EstimatedResponse: model.EstimatedResponse,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errReviewerClosed
	}
	if err := r.quotes.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to store quote: %w", err)
	}

	id := q.ID
	r.wg.Add(1)
	// The callback may run on the clock's own goroutine, so it only hands off.
	r.pending[id] = r.clock.AfterFunc(r.delay, func() {
		go func() {
			defer r.wg.Done()
			r.approve(id)
		}()
	})

	metrics.QuotesTotal.WithLabelValues("submitted").Inc()
	log.Info("Quote submitted", "quote", id, "plate", q.Plate, "documents", len(q.Documents))

	return q, nil
}

func (r *QuoteReviewer) List(ctx context.Context) ([]*model.Quote, error) {
	quotes, err := r.quotes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	return quotes, nil
}

// Cancel stops the pending approval of id. It reports false when nothing was
// pending or the approval already started.
func (r *QuoteReviewer) Cancel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelLocked(id)
}

func (r *QuoteReviewer) cancelLocked(id string) bool {
	t, ok := r.pending[id]
	if !ok {
		return false
	}
	delete(r.pending, id)
	if !t.Stop() {
		return false
	}
	r.wg.Done()
	metrics.QuotesTotal.WithLabelValues("cancelled").Inc()
	return true
}

// Pending returns the number of armed approval timers.
func (r *QuoteReviewer) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Shutdown refuses new submissions, cancels every armed timer and waits for
// approvals that already fired.
func (r *QuoteReviewer) Shutdown() {
	r.mu.Lock()
	r.closed = true
	for id := range r.pending {
		r.cancelLocked(id)
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *QuoteReviewer) approve(id string) {
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()

	ctx := context.Background()
	changed := false
	q, err := r.quotes.Update(ctx, id, func(q *model.Quote) error {
		var err error
		changed, err = approveQuote(ctx, q)
		return err
	})
	if err != nil {
		log.Error(err, "Failed to approve quote", "quote", id)
		return
	}
	if !changed {
		return
	}

	metrics.QuotesTotal.WithLabelValues("approved").Inc()
	log.Info("Quote approved", "quote", id, "plate", q.Plate)

	r.dispatcher.Dispatch(&model.Notification{
		Kind:      model.NotificationQuoteApproved,
		SubjectID: id,
		Payload:   q.Clone(),
	})
}

func validateQuoteRequest(req *model.QuoteRequest) error {
	if strings.TrimSpace(req.Plate) == "" {
		return &core.ValidationError{Field: "plate", Reason: "is required"}
	}
	if strings.TrimSpace(req.Model) == "" {
		return &core.ValidationError{Field: "model", Reason: "is required"}
	}
	if len(req.Documents) > MaxDocuments {
		return &core.ValidationError{Field: "files", Reason: fmt.Sprintf("at most %d documents are accepted", MaxDocuments)}
	}

	for _, d := range req.Documents {
		if d.Size < 0 {
			return &core.ValidationError{Field: "files", Reason: fmt.Sprintf("document %q has a negative size", d.Name)}
		}
		if d.Size > MaxDocumentSize {
			return &core.UnsupportedMediaError{Name: d.Name, Type: d.Type, Size: d.Size, Reason: "larger than 5 MiB"}
		}
		if !acceptedMediaType(d.Type) {
			return &core.UnsupportedMediaError{Name: d.Name, Type: d.Type, Size: d.Size, Reason: "only images and PDF files are accepted"}
		}
	}
	return nil
}

func acceptedMediaType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/") || mediaType == "application/pdf"
}

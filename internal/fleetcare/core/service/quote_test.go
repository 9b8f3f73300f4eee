package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/internal/pkg/util/random"
)

func validRequest() model.QuoteRequest {
	return model.QuoteRequest{
		Plate: "XYZ-9876",
		Model: "Fiat Argo 2022",
		Note:  "garagem coberta",
		Documents: []model.Document{
			{Name: "crlv.pdf", Size: 120_000, Type: "application/pdf"},
			{Name: "frente.jpg", Size: 800_000, Type: "image/jpeg"},
		},
	}
}

func TestSubmitRejectsInvalidRequests(t *testing.T) {
	tooMany := validRequest()
	for range 4 {
		tooMany.Documents = append(tooMany.Documents, model.Document{Name: "x.png", Size: 1, Type: "image/png"})
	}

	tests := []struct {
		name      string
		mutate    func(*model.QuoteRequest)
		wantMedia bool
	}{
		{"empty plate", func(r *model.QuoteRequest) { r.Plate = "" }, false},
		{"blank model", func(r *model.QuoteRequest) { r.Model = "   " }, false},
		{"too many documents", func(r *model.QuoteRequest) { r.Documents = tooMany.Documents }, false},
		{"negative size", func(r *model.QuoteRequest) { r.Documents[0].Size = -1 }, false},
		{"text document", func(r *model.QuoteRequest) { r.Documents[0].Type = "text/plain" }, true},
		{"malformed type", func(r *model.QuoteRequest) { r.Documents[0].Type = "pdf" }, true},
		{"oversized document", func(r *model.QuoteRequest) { r.Documents[1].Size = MaxDocumentSize + 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, random.NewSequence(0.5))
			ctx := context.Background()

			req := validRequest()
			tt.mutate(&req)

			_, err := f.svc.Quotes.Submit(ctx, req)
			if tt.wantMedia {
				var merr *core.UnsupportedMediaError
				require.ErrorAs(t, err, &merr)
			} else {
				var verr *core.ValidationError
				require.ErrorAs(t, err, &verr)
			}

			quotes, err := f.svc.Quotes.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, quotes)
			assert.Zero(t, f.svc.Quotes.Pending())
		})
	}
}

func TestSubmitAcceptsBoundaryDocuments(t *testing.T) {
	f := newFixture(t, random.NewSequence(0.5))

	req := validRequest()
	req.Documents = []model.Document{
		{Name: "a.pdf", Size: MaxDocumentSize, Type: "application/pdf"},
		{Name: "b.png", Size: 0, Type: "image/png"},
		{Name: "c.jpg", Size: 1, Type: "image/jpeg; charset=binary"},
		{Name: "d.webp", Size: 1, Type: "image/webp"},
		{Name: "e.pdf", Size: 1, Type: "application/pdf"},
	}

	_, err := f.svc.Quotes.Submit(context.Background(), req)
	require.NoError(t, err)
}

func TestQuoteApprovedAfterDelay(t *testing.T) {
	f := newFixture(t, random.NewSequence(0.5))
	ctx := context.Background()

	q, err := f.svc.Quotes.Submit(ctx, validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, model.QuoteStatusPending, q.Status)
	assert.Equal(t, testNow, q.CreatedAt)
	assert.Equal(t, "2-3 dias úteis", q.EstimatedResponse)
	assert.Equal(t, 1, f.svc.Quotes.Pending())

	f.clock.Step(DefaultApprovalDelay - time.Millisecond)
	quotes, err := f.svc.Quotes.List(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, model.QuoteStatusPending, quotes[0].Status)

	f.clock.Step(time.Millisecond)
	require.Eventually(t, func() bool {
		quotes, err := f.svc.Quotes.List(ctx)
		return err == nil && quotes[0].Status == model.QuoteStatusApproved
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool { return len(f.dispatcher.notifications()) == 1 }, time.Second, 5*time.Millisecond)

	f.clock.Step(time.Minute)
	f.svc.Close()

	sent := f.dispatcher.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, model.NotificationQuoteApproved, sent[0].Kind)
	assert.Equal(t, q.ID, sent[0].SubjectID)
	approved, ok := sent[0].Payload.(*model.Quote)
	require.True(t, ok)
	assert.Equal(t, model.QuoteStatusApproved, approved.Status)
	assert.Zero(t, f.svc.Quotes.Pending())
}

func TestApproveIsIdempotent(t *testing.T) {
	f := newFixture(t, random.NewSequence(0.5))

	q, err := f.svc.Quotes.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	require.True(t, f.svc.Quotes.Cancel(q.ID))

	f.svc.Quotes.approve(q.ID)
	f.svc.Quotes.approve(q.ID)

	assert.Len(t, f.dispatcher.notifications(), 1)
}

func TestCancelKeepsQuotePending(t *testing.T) {
	f := newFixture(t, random.NewSequence(0.5))
	ctx := context.Background()

	q, err := f.svc.Quotes.Submit(ctx, validRequest())
	require.NoError(t, err)

	assert.True(t, f.svc.Quotes.Cancel(q.ID))
	assert.False(t, f.svc.Quotes.Cancel(q.ID))
	assert.False(t, f.clock.HasWaiters())

	f.clock.Step(time.Hour)
	got, err := f.svc.Quotes.quotes.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuoteStatusPending, got.Status)
	assert.Empty(t, f.dispatcher.notifications())
}

func TestShutdownDisarmsTimers(t *testing.T) {
	f := newFixture(t, random.NewSequence(0.5))
	ctx := context.Background()

	for range 3 {
		_, err := f.svc.Quotes.Submit(ctx, validRequest())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.svc.Quotes.Pending())

	f.svc.Quotes.Shutdown()
	assert.Zero(t, f.svc.Quotes.Pending())
	assert.False(t, f.clock.HasWaiters())

	_, err := f.svc.Quotes.Submit(ctx, validRequest())
	assert.ErrorIs(t, err, errReviewerClosed)

	quotes, err := f.svc.Quotes.List(ctx)
	require.NoError(t, err)
	assert.Len(t, quotes, 3)
}

func TestApproveQuoteTransitions(t *testing.T) {
	q := &model.Quote{Status: model.QuoteStatusPending}

	changed, err := approveQuote(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.QuoteStatusApproved, q.Status)

	changed, err = approveQuote(context.Background(), q)
	require.NoError(t, err)
	assert.False(t, changed)
}

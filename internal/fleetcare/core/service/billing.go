package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/internal/pkg/metrics"
	"github.com/autopeer-io/fleetcare/pkg/log"
)

const DefaultDuplicatePrefix = "FGL"

// BillingLedger lists bills and issues duplicate slips. Bills are never
// modified here.
type BillingLedger struct {
	bills      core.BillRepository
	clock      core.Clock
	dispatcher core.Dispatcher
	prefix     string

	mu   sync.Mutex
	last int64
}

func NewBillingLedger(bills core.BillRepository, clk core.Clock, dispatcher core.Dispatcher, prefix string) *BillingLedger {
	if prefix == "" {
		prefix = DefaultDuplicatePrefix
	}
	return &BillingLedger{bills: bills, clock: clk, dispatcher: dispatcher, prefix: prefix}
}

func (l *BillingLedger) List(ctx context.Context) ([]*model.Bill, error) {
	bills, err := l.bills.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

// IssueDuplicate builds a duplicate of the bill with a fresh code and queues
// a notification for it. Paid bills may be duplicated too.
func (l *BillingLedger) IssueDuplicate(ctx context.Context, id string) (*model.DuplicateArtifact, error) {
	bill, err := l.bills.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := l.clock.Now()
	artifact := &model.DuplicateArtifact{
		Bill:        *bill,
		Code:        l.prefix + strconv.FormatInt(l.nextSerial(now.UnixMilli()), 10),
		GeneratedAt: now,
	}

	payload := *artifact
	payload.Bill = *bill.Clone()
	l.dispatcher.Dispatch(&model.Notification{
		Kind:      model.NotificationBillDuplicate,
		SubjectID: bill.ID,
		Payload:   &payload,
	})

	metrics.DuplicatesIssued.Inc()
	log.Info("Duplicate bill issued", "bill", bill.ID, "code", artifact.Code)

	return artifact, nil
}

// nextSerial keeps codes strictly increasing when two requests land in the
// same millisecond or the clock steps back.
func (l *BillingLedger) nextSerial(ms int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ms <= l.last {
		ms = l.last + 1
	}
	l.last = ms
	return ms
}

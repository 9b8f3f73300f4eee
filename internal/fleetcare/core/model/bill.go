package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type BillStatus string

const (
	BillStatusPending BillStatus = "pending"
	BillStatusPaid    BillStatus = "paid"
	BillStatusOverdue BillStatus = "overdue"
)

// BillingPeriodLayout is the layout of Bill.Month.
const BillingPeriodLayout = "2006-01"

// Bill is one monthly charge.
type Bill struct {
	ID string

	// Month is the billing period, e.g. "2024-03".
	Month    string
	Value    decimal.Decimal
	DueDate  time.Time
	PaidDate *time.Time
	Status   BillStatus
}

func (b *Bill) Clone() *Bill {
	cp := *b
	if b.PaidDate != nil {
		paid := *b.PaidDate
		cp.PaidDate = &paid
	}
	return &cp
}

// Validate checks that the billing period parses and that a paid date is
// present exactly when the bill is paid.
func (b *Bill) Validate() error {
	if _, err := time.Parse(BillingPeriodLayout, b.Month); err != nil {
		return errors.New("billing period must be formatted as YYYY-MM")
	}
	if (b.Status == BillStatusPaid) != (b.PaidDate != nil) {
		return errors.New("paid date must be set if and only if the bill is paid")
	}
	return nil
}

// DuplicateArtifact is a reissued bill. It is handed to the caller and to
// notifiers but never stored.
type DuplicateArtifact struct {
	Bill

	Code        string
	GeneratedAt time.Time
}

package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/internal/pkg/metrics"
	"github.com/autopeer-io/fleetcare/internal/pkg/util/random"
	"github.com/autopeer-io/fleetcare/pkg/log"
)

const (
	// RenewalThresholdDays is the horizon under which a contract is flagged for renewal.
	RenewalThresholdDays = 30

	// ContractTermDays is the length of a renewed contract.
	ContractTermDays = 365
)

var (
	hundred       = decimal.NewFromInt(100)
	maxAdjustment = decimal.RequireFromString("14.99")
	adjustmentCap = decimal.NewFromInt(15)
)

// ContractManager derives expiry state and renews contracts.
type ContractManager struct {
	contracts core.ContractRepository
	clock     core.Clock
	rnd       random.Source
}

func NewContractManager(contracts core.ContractRepository, clk core.Clock, rnd random.Source) *ContractManager {
	return &ContractManager{contracts: contracts, clock: clk, rnd: rnd}
}

// List returns every contract with its expiry fields computed against the
// same instant.
func (m *ContractManager) List(ctx context.Context) ([]model.ContractView, error) {
	contracts, err := m.contracts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	now := m.clock.Now()
	views := make([]model.ContractView, 0, len(contracts))
	for _, c := range contracts {
		views = append(views, View(c, now))
	}
	return views, nil
}

// View decorates c with the days left until its end date and the renewal flag.
// Expired contracts have a non-positive day count and always need renewal.
func View(c *model.Contract, now time.Time) model.ContractView {
	days := int(math.Ceil(c.EndDate.Sub(now).Hours() / 24))
	return model.ContractView{
		Contract:     *c,
		DaysToExpire: days,
		NeedsRenewal: days <= RenewalThresholdDays,
	}
}

// Renew restarts the contract today for another term and readjusts its
// monthly value by a random percentage in [5, 15).
func (m *ContractManager) Renew(ctx context.Context, id string) (*model.Contract, error) {
	adjustment := m.adjustment()
	today := truncateToDay(m.clock.Now())

	renewed, err := m.contracts.Update(ctx, id, func(c *model.Contract) error {
		factor := decimal.NewFromInt(1).Add(adjustment.Div(hundred))
		c.MonthlyValue = c.MonthlyValue.Mul(factor).Round(2)
		c.StartDate = today
		c.EndDate = today.AddDate(0, 0, ContractTermDays)
		c.Status = model.ContractStatusActive
		c.FipeAdjustment = adjustment
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ContractsRenewed.Inc()
	log.Info("Contract renewed", "contract", id, "adjustment", adjustment.String(), "monthlyValue", renewed.MonthlyValue.String())

	return renewed, nil
}

// adjustment rounds the drawn percentage to cents. A draw close enough to 1
// would round up to the excluded bound, so it is pulled back to 14.99.
func (m *ContractManager) adjustment() decimal.Decimal {
	adj := decimal.NewFromFloat(m.rnd.Float64()*10 + 5).Round(2)
	if adj.GreaterThanOrEqual(adjustmentCap) {
		return maxAdjustment
	}
	return adj
}

func truncateToDay(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type ContractStatus string

const (
	ContractStatusActive  ContractStatus = "active"
	ContractStatusExpired ContractStatus = "expired"
)

// Contract is the service agreement of one vehicle.
type Contract struct {
	ID        string
	VehicleID string
	StartDate time.Time
	EndDate   time.Time

	// MonthlyValue has two decimal places.
	MonthlyValue decimal.Decimal
	Status       ContractStatus

	// FipeAdjustment is the percentage applied at the last renewal.
	FipeAdjustment decimal.Decimal
}

func (c *Contract) Clone() *Contract {
	cp := *c
	return &cp
}

// Validate checks the contract invariants.
func (c *Contract) Validate() error {
	if !c.EndDate.After(c.StartDate) {
		return errors.New("end date must be after start date")
	}
	if !c.MonthlyValue.IsPositive() {
		return errors.New("monthly value must be positive")
	}
	return nil
}

// ContractView is a contract together with its expiry state at a point in time.
type ContractView struct {
	Contract

	// DaysToExpire is negative once the end date has passed.
	DaysToExpire int
	NeedsRenewal bool
}

package core

import (
	"context"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
)

// VehicleRepository gives read access to the vehicle registry.
type VehicleRepository interface {
	// List returns all vehicles in registration order.
	List(ctx context.Context) ([]*model.Vehicle, error)

	// Get returns a NotFoundError for unknown ids.
	Get(ctx context.Context, id string) (*model.Vehicle, error)
}

// ContractRepository stores contracts.
type ContractRepository interface {
	List(ctx context.Context) ([]*model.Contract, error)
	Get(ctx context.Context, id string) (*model.Contract, error)

	// Update applies fn to a copy of the contract and stores the copy only if
	// fn returns nil. Updates of one repository are serialized.
	Update(ctx context.Context, id string, fn func(*model.Contract) error) (*model.Contract, error)
}

// BillRepository gives read access to bills. Bills are never mutated by this service.
type BillRepository interface {
	List(ctx context.Context) ([]*model.Bill, error)
	Get(ctx context.Context, id string) (*model.Bill, error)
}

// QuoteRepository stores quotes.
type QuoteRepository interface {
	List(ctx context.Context) ([]*model.Quote, error)
	Get(ctx context.Context, id string) (*model.Quote, error)
	Create(ctx context.Context, q *model.Quote) error

	// Update has the same all-or-nothing semantics as ContractRepository.Update.
	Update(ctx context.Context, id string, fn func(*model.Quote) error) (*model.Quote, error)
}

// ProfileRepository stores user accounts.
type ProfileRepository interface {
	// List returns the users in registration order.
	List(ctx context.Context) ([]*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)

	// FindByEmail matches case-insensitively and returns a NotFoundError
	// when no user has the address.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	Update(ctx context.Context, id string, fn func(*model.User) error) (*model.User, error)
}

// Repository groups the entity repositories so a single backend can serve them all.
type Repository interface {
	Vehicles() VehicleRepository
	Contracts() ContractRepository
	Bills() BillRepository
	Quotes() QuoteRepository
	Profiles() ProfileRepository
}

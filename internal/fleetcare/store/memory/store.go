package memory

import (
	"context"
	"strings"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
)

var (
	_ core.Repository         = (*Store)(nil)
	_ core.VehicleRepository  = (*vehicleStore)(nil)
	_ core.ContractRepository = (*contractStore)(nil)
	_ core.BillRepository     = (*billStore)(nil)
	_ core.QuoteRepository    = (*quoteStore)(nil)
	_ core.ProfileRepository  = (*userStore)(nil)
)

// Store implements core.Repository in memory.
type Store struct {
	vehicles  *vehicleStore
	contracts *contractStore
	bills     *billStore
	quotes    *quoteStore
	users     *userStore
}

// NewStore returns an empty store. Use Load to fill it from a Seed.
func NewStore() *Store {
	return &Store{
		vehicles:  &vehicleStore{t: newTable("vehicle", (*model.Vehicle).Clone)},
		contracts: &contractStore{t: newTable("contract", (*model.Contract).Clone)},
		bills:     &billStore{t: newTable("bill", (*model.Bill).Clone)},
		quotes:    &quoteStore{t: newTable("quote", (*model.Quote).Clone)},
		users:     &userStore{t: newTable("user", (*model.User).Clone)},
	}
}

func (s *Store) Vehicles() core.VehicleRepository   { return s.vehicles }
func (s *Store) Contracts() core.ContractRepository { return s.contracts }
func (s *Store) Bills() core.BillRepository         { return s.bills }
func (s *Store) Quotes() core.QuoteRepository       { return s.quotes }
func (s *Store) Profiles() core.ProfileRepository   { return s.users }

type vehicleStore struct{ t *table[model.Vehicle] }

func (s *vehicleStore) List(_ context.Context) ([]*model.Vehicle, error) { return s.t.list(), nil }

func (s *vehicleStore) Get(_ context.Context, id string) (*model.Vehicle, error) {
	return s.t.get(id)
}

type contractStore struct{ t *table[model.Contract] }

func (s *contractStore) List(_ context.Context) ([]*model.Contract, error) { return s.t.list(), nil }

func (s *contractStore) Get(_ context.Context, id string) (*model.Contract, error) {
	return s.t.get(id)
}

func (s *contractStore) Update(_ context.Context, id string, fn func(*model.Contract) error) (*model.Contract, error) {
	return s.t.update(id, func(c *model.Contract) error {
		if err := fn(c); err != nil {
			return err
		}
		return c.Validate()
	})
}

type billStore struct{ t *table[model.Bill] }

func (s *billStore) List(_ context.Context) ([]*model.Bill, error) { return s.t.list(), nil }

func (s *billStore) Get(_ context.Context, id string) (*model.Bill, error) {
	return s.t.get(id)
}

type quoteStore struct{ t *table[model.Quote] }

func (s *quoteStore) List(_ context.Context) ([]*model.Quote, error) { return s.t.list(), nil }

func (s *quoteStore) Get(_ context.Context, id string) (*model.Quote, error) {
	return s.t.get(id)
}

func (s *quoteStore) Create(_ context.Context, q *model.Quote) error {
	return s.t.insert(q.ID, q)
}

func (s *quoteStore) Update(_ context.Context, id string, fn func(*model.Quote) error) (*model.Quote, error) {
	return s.t.update(id, fn)
}

type userStore struct{ t *table[model.User] }

func (s *userStore) List(_ context.Context) ([]*model.User, error) { return s.t.list(), nil }

func (s *userStore) Get(_ context.Context, id string) (*model.User, error) {
	return s.t.get(id)
}

func (s *userStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	u, ok := s.t.find(func(u *model.User) bool { return strings.EqualFold(u.Email, email) })
	if !ok {
		return nil, &core.NotFoundError{Kind: "user", ID: email}
	}
	return u, nil
}

// Update rejects an email address already used by another user.
func (s *userStore) Update(_ context.Context, id string, fn func(*model.User) error) (*model.User, error) {
	return s.t.updateWith(id, func(u *model.User, others func(func(*model.User) bool) bool) error {
		if err := fn(u); err != nil {
			return err
		}
		taken := others(func(o *model.User) bool { return strings.EqualFold(o.Email, u.Email) })
		if taken {
			return &core.ValidationError{Field: "email", Reason: "already in use"}
		}
		return nil
	})
}

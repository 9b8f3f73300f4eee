package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	seed, err := LoadSeed("")
	require.NoError(t, err)
	s := NewStore()
	require.NoError(t, s.Load(seed))
	return s
}

func TestLoadDefaultSeed(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	vehicles, err := s.Vehicles().List(ctx)
	require.NoError(t, err)
	require.Len(t, vehicles, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{vehicles[0].ID, vehicles[1].ID, vehicles[2].ID})
	assert.Equal(t, "ABC-1234", vehicles[0].Plate)
	assert.Equal(t, model.Coordinate{Lat: -23.5505, Lng: -46.6333}, vehicles[0].Location)
	assert.Equal(t, model.VehicleStatusInactive, vehicles[2].Status)

	contracts, err := s.Contracts().List(ctx)
	require.NoError(t, err)
	require.Len(t, contracts, 3)
	assert.True(t, decimal.RequireFromString("89.90").Equal(contracts[0].MonthlyValue))
	assert.True(t, decimal.RequireFromString("5.2").Equal(contracts[2].FipeAdjustment))
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), contracts[0].EndDate)

	bills, err := s.Bills().List(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 6)
	assert.Equal(t, model.BillStatusPaid, bills[0].Status)
	require.NotNil(t, bills[0].PaidDate)
	assert.Nil(t, bills[2].PaidDate)
	assert.Equal(t, model.BillStatusOverdue, bills[2].Status)
}

func TestLoadRejectsInvalidSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	data := "bills:\n  - { id: \"1\", month: \"2024-01\", value: \"10\", status: paid, dueDate: \"2024-01-15\" }\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	assert.Error(t, NewStore().Load(seed))
}

func TestGetUnknownReturnsNotFound(t *testing.T) {
	s := newSeededStore(t)

	_, err := s.Bills().Get(context.Background(), "99")
	var nf *core.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "bill", nf.Kind)
	assert.Equal(t, "99", nf.ID)
}

func TestReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	c, err := s.Contracts().Get(ctx, "1")
	require.NoError(t, err)
	c.Status = model.ContractStatusExpired

	again, err := s.Contracts().Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusActive, again.Status)
}

func TestUpdateIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	boom := errors.New("boom")

	_, err := s.Contracts().Update(ctx, "1", func(c *model.Contract) error {
		c.MonthlyValue = decimal.NewFromInt(1)
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Invariant violations are rejected as well.
	_, err = s.Contracts().Update(ctx, "1", func(c *model.Contract) error {
		c.EndDate = c.StartDate
		return nil
	})
	require.Error(t, err)

	c, err := s.Contracts().Get(ctx, "1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("89.90").Equal(c.MonthlyValue))
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), c.EndDate)
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Contracts().Update(ctx, "2", func(c *model.Contract) error {
				c.MonthlyValue = c.MonthlyValue.Add(decimal.NewFromInt(1))
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	c, err := s.Contracts().Get(ctx, "2")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("139.90").Equal(c.MonthlyValue), c.MonthlyValue.String())
}

func TestQuoteCreateKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, s.Quotes().Create(ctx, &model.Quote{ID: id, Status: model.QuoteStatusPending}))
	}
	assert.Error(t, s.Quotes().Create(ctx, &model.Quote{ID: "a"}))

	quotes, err := s.Quotes().List(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, "b", quotes[0].ID)
	assert.Equal(t, "c", quotes[2].ID)
}

func TestSeededUser(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	users, err := s.Profiles().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	u := users[0]
	assert.Equal(t, "Felipe Silva", u.Name)
	assert.Equal(t, "(11) 99999-9999", u.Phone)
	assert.NotEqual(t, "demo123", string(u.PasswordHash))
	assert.NoError(t, bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("demo123")))
}

func TestFindUserByEmail(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	u, err := s.Profiles().FindByEmail(ctx, " Felipe@FGLRastreamento.com ")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	_, err = s.Profiles().FindByEmail(ctx, "nobody@example.com")
	assert.True(t, core.IsNotFound(err))
}

func TestUserUpdateRejectsTakenEmail(t *testing.T) {
	ctx := context.Background()
	seed := &Seed{Users: []UserSeed{
		{ID: "1", Name: "Ana", Email: "ana@example.com", PasswordHash: "$2a$04$abcdefghijklmnopqrstuu5Jv4kYyTDkc3fSMQtCjeLFNv0sMLDsu"},
		{ID: "2", Name: "Bia", Email: "bia@example.com", Password: "secret"},
	}}
	s := NewStore()
	require.NoError(t, s.Load(seed))

	_, err := s.Profiles().Update(ctx, "2", func(u *model.User) error {
		u.Email = "ANA@example.com"
		return nil
	})
	assert.True(t, core.IsValidation(err))

	// Keeping its own address is fine.
	u, err := s.Profiles().Update(ctx, "2", func(u *model.User) error {
		u.Name = "Beatriz"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Beatriz", u.Name)
	assert.Equal(t, "bia@example.com", u.Email)
}

func TestLoadRejectsUserWithoutPassword(t *testing.T) {
	s := NewStore()
	assert.Error(t, s.Load(&Seed{Users: []UserSeed{{ID: "1", Email: "a@example.com"}}}))
	assert.Error(t, s.Load(&Seed{Users: []UserSeed{{ID: "1", Email: "a@example.com", PasswordHash: "plain"}}}))
}

package service

import (
	"context"
	"time"

	"k8s.io/utils/clock"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/internal/pkg/util/random"
)

// Config carries the collaborators and tunables of the core service.
// Zero values fall back to production defaults.
type Config struct {
	Clock      core.Clock
	Random     random.Source
	Dispatcher core.Dispatcher

	// DefaultBase is used when telemetry is requested for an unknown vehicle.
	DefaultBase model.Coordinate

	HistoryWindow   int
	ApprovalDelay   time.Duration
	DuplicatePrefix string

	// TokenSecret signs login tokens. Empty means a random per-process secret.
	TokenSecret []byte
	TokenTTL    time.Duration
}

// Service implements the fleet use cases. Each entity type is owned by one
// component; the HTTP layer talks to the components directly.
type Service struct {
	Tracker   *Tracker
	Contracts *ContractManager
	Billing   *BillingLedger
	Quotes    *QuoteReviewer
	Profiles  *Profiles

	vehicles core.VehicleRepository
}

// New wires the components on top of repo.
func New(repo core.Repository, cfg Config) *Service {
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	if cfg.Random == nil {
		cfg.Random = random.New(0)
	}
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = discard{}
	}

	return &Service{
		Tracker:   NewTracker(repo.Vehicles(), cfg.Clock, cfg.Random, cfg.DefaultBase, cfg.HistoryWindow),
		Contracts: NewContractManager(repo.Contracts(), cfg.Clock, cfg.Random),
		Billing:   NewBillingLedger(repo.Bills(), cfg.Clock, cfg.Dispatcher, cfg.DuplicatePrefix),
		Quotes:    NewQuoteReviewer(repo.Quotes(), cfg.Clock, cfg.Dispatcher, cfg.ApprovalDelay),
		Profiles:  NewProfiles(repo.Profiles(), cfg.Clock, cfg.TokenSecret, cfg.TokenTTL),
		vehicles:  repo.Vehicles(),
	}
}

// ListVehicles returns the registered vehicles.
func (s *Service) ListVehicles(ctx context.Context) ([]*model.Vehicle, error) {
	return s.vehicles.List(ctx)
}

// GetVehicle returns a NotFoundError for unknown ids.
func (s *Service) GetVehicle(ctx context.Context, id string) (*model.Vehicle, error) {
	return s.vehicles.Get(ctx, id)
}

// Close stops pending quote approvals and waits for running ones.
func (s *Service) Close() {
	s.Quotes.Shutdown()
}

type discard struct{}

func (discard) Dispatch(*model.Notification) {}

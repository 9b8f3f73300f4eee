package options

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/service"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/notifier"
	"github.com/autopeer-io/fleetcare/pkg/options"
)

var _ options.IOptions = (*FleetOptions)(nil)

// FleetOptions tunes the simulation and lifecycle rules of the fleet service.
type FleetOptions struct {
	SeedFile string `json:"seed-file" mapstructure:"seed-file"`

	ApprovalDelay  time.Duration `json:"approval-delay" mapstructure:"approval-delay"`
	HistoryWindow  int           `json:"history-window" mapstructure:"history-window"`
	StreamInterval time.Duration `json:"stream-interval" mapstructure:"stream-interval"`

	DuplicatePrefix string `json:"duplicate-prefix" mapstructure:"duplicate-prefix"`

	// Base coordinate for vehicles missing from the registry.
	DefaultLat float64 `json:"default-lat" mapstructure:"default-lat"`
	DefaultLng float64 `json:"default-lng" mapstructure:"default-lng"`

	RandomSeed uint64 `json:"random-seed" mapstructure:"random-seed"`

	QueueSize        int    `json:"queue-size" mapstructure:"queue-size"`
	RecipientName    string `json:"recipient-name" mapstructure:"recipient-name"`
	RecipientAddress string `json:"recipient-address" mapstructure:"recipient-address"`

	TokenSecret string        `json:"token-secret" mapstructure:"token-secret"`
	TokenTTL    time.Duration `json:"token-ttl" mapstructure:"token-ttl"`
}

func NewFleetOptions() *FleetOptions {
	return &FleetOptions{
		ApprovalDelay:    service.DefaultApprovalDelay,
		HistoryWindow:    service.DefaultHistoryWindow,
		StreamInterval:   5 * time.Second,
		DuplicatePrefix:  service.DefaultDuplicatePrefix,
		DefaultLat:       -23.5505,
		DefaultLng:       -46.6333,
		QueueSize:        notifier.DefaultQueueSize,
		RecipientName:    "Cliente",
		RecipientAddress: "cliente@fglrastreamento.com",
		TokenTTL:         service.DefaultTokenTTL,
	}
}

func (o *FleetOptions) Validate() []error {
	var errs []error

	if o.ApprovalDelay <= 0 {
		errs = append(errs, errors.New("fleet.approval-delay must be positive"))
	}
	if o.HistoryWindow < 1 || o.HistoryWindow > service.MaxHistoryWindow {
		errs = append(errs, fmt.Errorf("fleet.history-window must be between 1 and %d", service.MaxHistoryWindow))
	}
	if o.StreamInterval <= 0 {
		errs = append(errs, errors.New("fleet.stream-interval must be positive"))
	}
	if o.DuplicatePrefix == "" {
		errs = append(errs, errors.New("fleet.duplicate-prefix must not be empty"))
	}
	if o.DefaultLat < -90 || o.DefaultLat > 90 || o.DefaultLng < -180 || o.DefaultLng > 180 {
		errs = append(errs, errors.New("fleet.default-lat/default-lng out of range"))
	}
	if o.TokenTTL <= 0 {
		errs = append(errs, errors.New("fleet.token-ttl must be positive"))
	}
	if o.QueueSize <= 0 {
		errs = append(errs, errors.New("fleet.queue-size must be positive"))
	}

	return errs
}

func (o *FleetOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.SeedFile, "fleet.seed-file", o.SeedFile, "YAML file with the vehicles, contracts and bills to load. The built-in fixtures are used when empty.")
	fs.DurationVar(&o.ApprovalDelay, "fleet.approval-delay", o.ApprovalDelay, "Delay before a submitted quote is approved.")
	fs.IntVar(&o.HistoryWindow, "fleet.history-window", o.HistoryWindow, "Default number of hourly samples in a tracking history.")
	fs.DurationVar(&o.StreamInterval, "fleet.stream-interval", o.StreamInterval, "Interval between samples on a live tracking stream.")
	fs.StringVar(&o.DuplicatePrefix, "fleet.duplicate-prefix", o.DuplicatePrefix, "Prefix of duplicate bill codes.")
	fs.Float64Var(&o.DefaultLat, "fleet.default-lat", o.DefaultLat, "Latitude used for vehicles missing from the registry.")
	fs.Float64Var(&o.DefaultLng, "fleet.default-lng", o.DefaultLng, "Longitude used for vehicles missing from the registry.")
	fs.Uint64Var(&o.RandomSeed, "fleet.random-seed", o.RandomSeed, "Seed of the simulation random source. 0 seeds from the clock.")
	fs.IntVar(&o.QueueSize, "fleet.queue-size", o.QueueSize, "Number of notifications buffered for delivery.")
	fs.StringVar(&o.RecipientName, "fleet.recipient-name", o.RecipientName, "Name greeted in customer e-mails.")
	fs.StringVar(&o.RecipientAddress, "fleet.recipient-address", o.RecipientAddress, "Address customer e-mails are sent to.")
	fs.StringVar(&o.TokenSecret, "fleet.token-secret", o.TokenSecret, "Secret that signs login tokens. A random secret is generated when empty.")
	fs.DurationVar(&o.TokenTTL, "fleet.token-ttl", o.TokenTTL, "Lifetime of login tokens.")
}

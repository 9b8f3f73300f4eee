package options

import (
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/fleetcare/internal/fleetcare"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/notifier"
	"github.com/autopeer-io/fleetcare/pkg/app"
	"github.com/autopeer-io/fleetcare/pkg/log"
	"github.com/autopeer-io/fleetcare/pkg/options"
)

type ServerOptions struct {
	HttpOptions  *options.HttpOptions  `json:"http" mapstructure:"http"`
	GrpcOptions  *options.GrpcOptions  `json:"grpc" mapstructure:"grpc"`
	MqttOptions  *options.MqttOptions  `json:"mqtt" mapstructure:"mqtt"`
	S3Options    *options.S3Options    `json:"s3" mapstructure:"s3"`
	RedisOptions *options.RedisOptions `json:"redis" mapstructure:"redis"`
	FleetOptions *FleetOptions         `json:"fleet" mapstructure:"fleet"`
	Log          *log.Options          `json:"log" mapstructure:"log"`
}

var _ app.NamedFlagSetOptions = (*ServerOptions)(nil)

func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		HttpOptions:  options.NewHttpOptions(),
		GrpcOptions:  options.NewGrpcOptions(),
		MqttOptions:  options.NewMqttOptions(),
		S3Options:    options.NewS3Options(),
		RedisOptions: options.NewRedisOptions(),
		FleetOptions: NewFleetOptions(),
		Log:          log.NewOptions(),
	}
}

func (o *ServerOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.GrpcOptions.AddFlags(fss.FlagSet("grpc"))
	o.FleetOptions.AddFlags(fss.FlagSet("fleet"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.RedisOptions.AddFlags(fss.FlagSet("redis"))
	o.S3Options.AddFlags(fss.FlagSet("s3"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *ServerOptions) Complete() error {
	return nil
}

func (o *ServerOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.GrpcOptions.Validate()...)
	errs = append(errs, o.FleetOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.RedisOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

func (o *ServerOptions) Config() (*fleetcare.Config, error) {
	f := o.FleetOptions
	return &fleetcare.Config{
		HttpOptions:     o.HttpOptions,
		GrpcOptions:     o.GrpcOptions,
		MqttOptions:     o.MqttOptions,
		S3Options:       o.S3Options,
		RedisOptions:    o.RedisOptions,
		SeedFile:        f.SeedFile,
		ApprovalDelay:   f.ApprovalDelay,
		HistoryWindow:   f.HistoryWindow,
		StreamInterval:  f.StreamInterval,
		DuplicatePrefix: f.DuplicatePrefix,
		DefaultBase:     model.Coordinate{Lat: f.DefaultLat, Lng: f.DefaultLng},
		RandomSeed:      f.RandomSeed,
		QueueSize:       f.QueueSize,
		Recipient:       notifier.Recipient{Name: f.RecipientName, Address: f.RecipientAddress},
		TokenSecret:     f.TokenSecret,
		TokenTTL:        f.TokenTTL,
	}, nil
}

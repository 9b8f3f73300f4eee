package fleetcare

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"k8s.io/utils/clock"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/service"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/notifier"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/server"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/server/http"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/store/memory"
	"github.com/autopeer-io/fleetcare/internal/pkg/util/random"
	"github.com/autopeer-io/fleetcare/pkg/log"
	"github.com/autopeer-io/fleetcare/pkg/mqtt/topic"
	"github.com/autopeer-io/fleetcare/pkg/options"
)

type Config struct {
	HttpOptions  *options.HttpOptions
	GrpcOptions  *options.GrpcOptions
	MqttOptions  *options.MqttOptions
	S3Options    *options.S3Options
	RedisOptions *options.RedisOptions

	// SeedFile replaces the embedded fixtures when set.
	SeedFile string

	ApprovalDelay   time.Duration
	HistoryWindow   int
	StreamInterval  time.Duration
	DuplicatePrefix string
	DefaultBase     model.Coordinate

	// RandomSeed makes telemetry and renewals reproducible. Zero seeds from the clock.
	RandomSeed uint64

	QueueSize int
	Recipient notifier.Recipient

	// TokenSecret signs login tokens. Empty means a random secret per process.
	TokenSecret string
	TokenTTL    time.Duration
}

func (cfg *Config) NewServer() (*FleetServer, error) {
	clk := clock.RealClock{}

	// 1. Repository (Secondary Adapter)
	seed, err := memory.LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	store := memory.NewStore()
	if err := store.Load(seed); err != nil {
		return nil, err
	}

	// 2. Notifiers (Secondary Adapters)
	fs := &FleetServer{}
	notifiers := notifier.MultiNotifier{
		notifier.NewLogNotifier(notifier.NewTemplate(cfg.Recipient), log.Std()),
	}

	if cfg.MqttOptions.Enabled {
		client, err := InitializeMQTTClient(cfg.MqttOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to init mqtt notifier: %w", err)
		}
		fs.mqtt = client
		topics := topic.NewTopicBuilder(cfg.MqttOptions.TopicRoot)
		notifiers = append(notifiers, notifier.NewMQTTNotifier(client, topics, cfg.MqttOptions.QoS, clk))
		log.Info("MQTT notifications enabled", "topics", topics.NotificationWildcard())
	}

	if cfg.RedisOptions.Enabled {
		fs.redis = redis.NewClient(cfg.RedisOptions.ToClientOptions())
		notifiers = append(notifiers, notifier.NewRedisNotifier(fs.redis, cfg.RedisOptions.ChannelPrefix, clk))
		log.Info("Redis notifications enabled", "addr", cfg.RedisOptions.Addr, "prefix", cfg.RedisOptions.ChannelPrefix)
	}

	if cfg.S3Options.Enabled {
		client, err := notifier.NewMinIOClient(cfg.S3Options)
		if err != nil {
			return nil, err
		}
		fs.minio, fs.s3 = client, cfg.S3Options
		notifiers = append(notifiers, notifier.NewArchiveNotifier(client, cfg.S3Options.BucketName))
		log.Info("Document archive enabled", "endpoint", cfg.S3Options.Endpoint, "bucket", cfg.S3Options.BucketName)
	}

	fs.queue = notifier.NewQueue(notifiers, cfg.QueueSize, 0)

	// 3. Core Domain Service
	fs.svc = service.New(store, service.Config{
		Clock:           clk,
		Random:          random.New(cfg.RandomSeed),
		Dispatcher:      fs.queue,
		DefaultBase:     cfg.DefaultBase,
		HistoryWindow:   cfg.HistoryWindow,
		ApprovalDelay:   cfg.ApprovalDelay,
		DuplicatePrefix: cfg.DuplicatePrefix,
		TokenSecret:     []byte(cfg.TokenSecret),
		TokenTTL:        cfg.TokenTTL,
	})

	// 4. Ingress Servers (Primary Adapters)
	handler := http.NewHandler(fs.svc, clk, cfg.HttpOptions.MaxUploadSize, cfg.StreamInterval)
	fs.manager = server.NewManager(&server.Config{
		HttpOptions: cfg.HttpOptions,
		GrpcOptions: cfg.GrpcOptions,
	}, handler)

	return fs, nil
}

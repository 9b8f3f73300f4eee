package fleetcare

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/pkg/options"
)

func testConfig() *Config {
	httpOpts := options.NewHttpOptions()
	httpOpts.Addr = "127.0.0.1:0"

	return &Config{
		HttpOptions:  httpOpts,
		GrpcOptions:  options.NewGrpcOptions(),
		MqttOptions:  options.NewMqttOptions(),
		S3Options:    options.NewS3Options(),
		RedisOptions: options.NewRedisOptions(),
		DefaultBase:  model.Coordinate{Lat: -23.5505, Lng: -46.6333},
		RandomSeed:   1,
	}
}

func TestServerRunsUntilCancelled(t *testing.T) {
	srv, err := testConfig().NewServer()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewServerRejectsMissingSeed(t *testing.T) {
	cfg := testConfig()
	cfg.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := cfg.NewServer()
	assert.Error(t, err)
}

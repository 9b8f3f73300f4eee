package fleetcare

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/service"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/notifier"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/server"
	"github.com/autopeer-io/fleetcare/pkg/log"
	"github.com/autopeer-io/fleetcare/pkg/mqtt"
	"github.com/autopeer-io/fleetcare/pkg/options"
)

// FleetServer is the main application struct.
type FleetServer struct {
	manager *server.Manager
	svc     *service.Service
	queue   *notifier.Queue

	// Optional outbound connections.
	mqtt  mqtt.Client
	redis *redis.Client
	minio *minio.Client
	s3    *options.S3Options
}

// Run starts the application components and blocks until ctx is cancelled
// or a server fails. On the way out, pending quote approvals are cancelled
// and queued notifications are delivered before connections are closed.
func (s *FleetServer) Run(ctx context.Context) error {
	log.Info("Starting fleetcare server...")

	if s.mqtt != nil {
		if err := s.mqtt.Start(ctx); err != nil {
			return fmt.Errorf("failed to start mqtt client: %w", err)
		}
		defer s.mqtt.Disconnect(context.Background())
	}
	if s.redis != nil {
		defer s.redis.Close()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			log.Warn("Redis is not reachable yet, notifications will fail until it is", "error", err)
		}
	}
	if s.minio != nil {
		if err := notifier.EnsureBucket(ctx, s.minio, s.s3.BucketName, s.s3.Region); err != nil {
			return err
		}
	}

	go s.queue.Start(ctx)

	err := s.manager.Start(ctx)

	s.svc.Close()
	s.queue.Close()

	log.Info("fleetcare server stopped gracefully.")
	return err
}

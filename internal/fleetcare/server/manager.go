package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/server/grpc"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/server/http"
	"github.com/autopeer-io/fleetcare/pkg/log"
)

// Server defines the common interface for all sub-servers (grpc, http).
type Server interface {
	Start(ctx context.Context) error
}

// Manager manages the lifecycle of all protocol servers.
type Manager struct {
	servers []Server
}

// NewManager creates a server manager for the configured listeners. The
// gRPC listener is optional.
func NewManager(cfg *Config, handler *http.Handler) *Manager {
	servers := []Server{http.NewServer(cfg.HttpOptions, handler)}

	if cfg.GrpcOptions != nil && cfg.GrpcOptions.Enabled {
		servers = append(servers, grpc.NewServer(cfg.GrpcOptions))
	}

	return &Manager{servers: servers}
}

// Start launches all servers in parallel and waits for termination. The
// first server to fail stops the others.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, srv := range m.servers {
		g.Go(func() error {
			return srv.Start(ctx)
		})
	}

	log.Info("All servers starting...", "count", len(m.servers))
	return g.Wait()
}

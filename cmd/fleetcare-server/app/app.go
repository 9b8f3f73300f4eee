package app

import (
	"context"
	"fmt"

	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/autopeer-io/fleetcare/cmd/fleetcare-server/app/options"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/server/http"
	"github.com/autopeer-io/fleetcare/pkg/app"
	"github.com/autopeer-io/fleetcare/pkg/log"
)

const (
	commandName = "fleetcare-server"
	commandDesc = `The fleetcare server exposes the FGL Rastreamento fleet API: simulated vehicle
telemetry, contract renewal, duplicate bills and quote requests that are
approved automatically after a short review delay.

Notifications are rendered as customer e-mails in the log and can also be
published to MQTT, Redis pub/sub and archived as PDF documents in S3.`
)

func NewApp() *app.App {
	opts := options.NewServerOptions()
	application := app.NewApp(
		commandName,
		"Launch the fleetcare API server",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
		app.WithLoggerContextExtractor(map[string]func(context.Context) string{
			"request.id": http.RequestIDFromContext,
		}),
	)
	return application
}

func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		log.Init(opts.Log)

		ctx := genericapiserver.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		server, err := cfg.NewServer()
		if err != nil {
			return fmt.Errorf("failed to create fleetcare server: %w", err)
		}

		return server.Run(ctx)
	}
}

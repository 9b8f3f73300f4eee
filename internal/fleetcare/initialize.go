package fleetcare

import (
	"fmt"
	"os"

	"github.com/autopeer-io/fleetcare/pkg/log"
	"github.com/autopeer-io/fleetcare/pkg/mqtt"
	"github.com/autopeer-io/fleetcare/pkg/options"
)

// InitializeMQTTClient creates the publishing client. Without an explicit
// client id one is derived from the hostname.
func InitializeMQTTClient(opts *options.MqttOptions) (mqtt.Client, error) {
	cfg := opts.ToClientConfig()

	if cfg.ClientID == "" {
		hostname, _ := os.Hostname()
		cfg.ClientID = fmt.Sprintf("fleetcare-notifier-%s", hostname)
	}

	client, err := mqtt.NewClient(cfg)
	if err != nil {
		log.Error(err, "failed to new mqtt client")
		return nil, err
	}

	return client, nil
}

package notifier

import (
	"context"
	"fmt"

	"k8s.io/utils/clock"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	pkgmqtt "github.com/autopeer-io/fleetcare/pkg/mqtt"
	"github.com/autopeer-io/fleetcare/pkg/mqtt/topic"
)

// MQTTNotifier publishes notifications as JSON on
// {root}/notifications/{kind}/{subject}.
type MQTTNotifier struct {
	client pkgmqtt.Client
	topics *topic.TopicBuilder
	qos    int
	clock  clock.PassiveClock
}

func NewMQTTNotifier(client pkgmqtt.Client, topics *topic.TopicBuilder, qos int, clk clock.PassiveClock) *MQTTNotifier {
	return &MQTTNotifier{client: client, topics: topics, qos: qos, clock: clk}
}

func (n *MQTTNotifier) Notify(ctx context.Context, notification *model.Notification) error {
	payload, err := Encode(notification, n.clock.Now())
	if err != nil {
		return err
	}

	t := n.topics.Notification(string(notification.Kind), notification.SubjectID)
	if err := n.client.Publish(ctx, t, n.qos, false, payload); err != nil {
		return fmt.Errorf("mqtt publish to %s: %w", t, err)
	}
	return nil
}

package notifier

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"k8s.io/utils/clock"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
)

// Publisher is the subset of *redis.Client used for pub/sub.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

var _ Publisher = (*redis.Client)(nil)

// RedisNotifier publishes notifications as JSON on the channel
// {prefix}:{kind}.
type RedisNotifier struct {
	client Publisher
	prefix string
	clock  clock.PassiveClock
}

func NewRedisNotifier(client Publisher, prefix string, clk clock.PassiveClock) *RedisNotifier {
	return &RedisNotifier{client: client, prefix: prefix, clock: clk}
}

// Channel returns the pub/sub channel notifications of kind are published on.
func (n *RedisNotifier) Channel(kind model.NotificationKind) string {
	return fmt.Sprintf("%s:%s", n.prefix, kind)
}

func (n *RedisNotifier) Notify(ctx context.Context, notification *model.Notification) error {
	payload, err := Encode(notification, n.clock.Now())
	if err != nil {
		return err
	}

	channel := n.Channel(notification.Kind)
	if err := n.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish to %s: %w", channel, err)
	}
	return nil
}

package core

import (
	"context"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
)

// Notifier delivers a notification over one outbound channel.
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}

// Dispatcher accepts notifications for asynchronous, best-effort delivery.
// Dispatch never blocks and never reports delivery failures to the caller.
type Dispatcher interface {
	Dispatch(n *model.Notification)
}

package notifier

import (
	"context"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
)

// MultiNotifier fans a notification out to every channel. A failing channel
// does not stop the others; their errors are aggregated.
type MultiNotifier []core.Notifier

func (m MultiNotifier) Notify(ctx context.Context, n *model.Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return utilerrors.NewAggregate(errs)
}

package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/internal/pkg/metrics"
	"github.com/autopeer-io/fleetcare/pkg/log"
)

const (
	DefaultQueueSize       = 64
	DefaultDeliveryTimeout = 10 * time.Second
)

var _ core.Dispatcher = (*Queue)(nil)

// Queue decouples notification producers from delivery. Dispatch never
// blocks: when the buffer is full the notification is dropped and counted.
// A single worker started with Start delivers in FIFO order.
type Queue struct {
	notifier core.Notifier
	timeout  time.Duration

	mu     sync.RWMutex
	ch     chan *model.Notification
	closed bool
	done   chan struct{}
}

func NewQueue(notifier core.Notifier, size int, timeout time.Duration) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultDeliveryTimeout
	}
	return &Queue{
		notifier: notifier,
		timeout:  timeout,
		ch:       make(chan *model.Notification, size),
		done:     make(chan struct{}),
	}
}

func (q *Queue) Dispatch(n *model.Notification) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.drop(n, "queue closed")
		return
	}

	select {
	case q.ch <- n:
	default:
		q.drop(n, "queue full")
	}
}

// Start delivers queued notifications until Close is called and the buffer
// is drained. Cancelling ctx does not abort deliveries already queued.
func (q *Queue) Start(ctx context.Context) error {
	defer close(q.done)

	ctx = context.WithoutCancel(ctx)
	for n := range q.ch {
		q.deliver(ctx, n)
	}
	return nil
}

// Close stops accepting notifications and waits for the worker to finish
// what is already queued. The worker must have been started.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	<-q.done
}

func (q *Queue) deliver(ctx context.Context, n *model.Notification) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	if err := q.notifier.Notify(ctx, n); err != nil {
		derr := &core.DispatchError{Kind: n.Kind, SubjectID: n.SubjectID, Err: err}
		metrics.NotificationsTotal.WithLabelValues(string(n.Kind), "failed").Inc()
		log.Error(derr, "Failed to deliver notification")
		return
	}

	metrics.NotificationsTotal.WithLabelValues(string(n.Kind), "delivered").Inc()
	log.Debug("Notification delivered", "kind", n.Kind, "subject", n.SubjectID)
}

func (q *Queue) drop(n *model.Notification, reason string) {
	metrics.NotificationsDropped.WithLabelValues(string(n.Kind)).Inc()
	log.Warn("Notification dropped", "kind", n.Kind, "subject", n.SubjectID, "reason", reason)
}

package fsm

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

// WrapEvent adapts a callback that returns an error to fsm.Callback. The error
// is stored on the event and returned from FSM.Event.
func WrapEvent(fn func(ctx context.Context, event *fsm.Event) error) fsm.Callback {
	return func(ctx context.Context, event *fsm.Event) {
		if err := fn(ctx, event); err != nil {
			event.Err = err
		}
	}
}

// Fire triggers event and reports whether the state changed. An event that is
// not valid in the current state, or that a guard cancelled with
// NoTransitionError, is not an error.
func Fire(ctx context.Context, f *fsm.FSM, event string, args ...any) (bool, error) {
	err := f.Event(ctx, event, args...)

	var invalid fsm.InvalidEventError
	var noop fsm.NoTransitionError
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &invalid), errors.As(err, &noop):
		return false, nil
	default:
		return false, err
	}
}

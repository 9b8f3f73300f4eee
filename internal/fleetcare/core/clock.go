package core

import (
	"k8s.io/utils/clock"
)

// Clock is the time source of the core. clock.RealClock satisfies it in
// production and testing.FakeClock in tests.
type Clock interface {
	clock.WithTicker
	clock.WithDelayedExecution
}

var _ Clock = clock.RealClock{}

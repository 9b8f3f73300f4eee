package service

import (
	"context"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/internal/pkg/util/random"
)

const (
	// jitterSpan is the width of the per-axis offset around the base, in degrees.
	jitterSpan = 0.01

	minSpeed    = 20
	speedSpan   = 80
	headingSpan = 360

	DefaultHistoryWindow = 24
	MaxHistoryWindow     = 7 * 24
)

// Tracker simulates vehicle telemetry. It keeps no state between calls.
type Tracker struct {
	vehicles    core.VehicleRepository
	clock       core.Clock
	rnd         random.Source
	defaultBase model.Coordinate
	window      int
}

func NewTracker(vehicles core.VehicleRepository, clk core.Clock, rnd random.Source, defaultBase model.Coordinate, window int) *Tracker {
	if window <= 0 || window > MaxHistoryWindow {
		window = DefaultHistoryWindow
	}
	return &Tracker{
		vehicles:    vehicles,
		clock:       clk,
		rnd:         rnd,
		defaultBase: defaultBase,
		window:      window,
	}
}

// Locate returns the simulation base of a vehicle, or the default base when
// the vehicle is unknown.
func (t *Tracker) Locate(ctx context.Context, vehicleID string) (model.Coordinate, error) {
	v, err := t.vehicles.Get(ctx, vehicleID)
	switch {
	case err == nil:
		return v.Location, nil
	case core.IsNotFound(err):
		return t.defaultBase, nil
	default:
		return model.Coordinate{}, err
	}
}

// Sample produces one reading around base stamped with the current time.
func (t *Tracker) Sample(vehicleID string, base model.Coordinate) model.TelemetrySample {
	return t.simulate(vehicleID, base, t.clock.Now())
}

// History returns windowHours hourly samples ending now, oldest first.
// A zero window selects the configured default. Every iteration of the
// returned sequence reads the clock once and simulates fresh samples.
func (t *Tracker) History(vehicleID string, base model.Coordinate, windowHours int) (iter.Seq[model.TelemetrySample], error) {
	if windowHours == 0 {
		windowHours = t.window
	}
	if windowHours < 1 || windowHours > MaxHistoryWindow {
		return nil, &core.ValidationError{
			Field:  "hours",
			Reason: fmt.Sprintf("must be between 1 and %d", MaxHistoryWindow),
		}
	}

	return func(yield func(model.TelemetrySample) bool) {
		now := t.clock.Now()
		for i := windowHours - 1; i >= 0; i-- {
			if !yield(t.simulate(vehicleID, base, now.Add(-time.Duration(i)*time.Hour))) {
				return
			}
		}
	}, nil
}

// Watch emits a sample immediately and then one per interval until ctx is
// cancelled, at which point the ticker is stopped and the channel closed.
// A slow reader skips ticks rather than queueing them.
func (t *Tracker) Watch(ctx context.Context, vehicleID string, base model.Coordinate, interval time.Duration) <-chan model.TelemetrySample {
	out := make(chan model.TelemetrySample, 1)
	ticker := t.clock.NewTicker(interval)

	go func() {
		defer close(out)
		defer ticker.Stop()

		out <- t.Sample(vehicleID, base)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				select {
				case out <- t.Sample(vehicleID, base):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// simulate draws lat, lng, speed and heading in that order.
func (t *Tracker) simulate(vehicleID string, base model.Coordinate, at time.Time) model.TelemetrySample {
	lat := base.Lat + (t.rnd.Float64()-0.5)*jitterSpan
	lng := base.Lng + (t.rnd.Float64()-0.5)*jitterSpan

	return model.TelemetrySample{
		VehicleID: vehicleID,
		Location:  model.Coordinate{Lat: lat, Lng: lng},
		Speed:     int(math.Floor(t.rnd.Float64()*speedSpan)) + minSpeed,
		Heading:   int(math.Floor(t.rnd.Float64() * headingSpan)),
		Timestamp: at,
		Status:    model.MovementMoving,
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/internal/pkg/util/random"
)

func TestSample(t *testing.T) {
	base := model.Coordinate{Lat: -23.5505, Lng: -46.6333}

	tests := []struct {
		name        string
		draws       []float64
		wantSpeed   int
		wantHeading int
	}{
		{"midpoint", []float64{0.5, 0.5, 0.5, 0.5}, 60, 180},
		{"lower bound", []float64{0, 0, 0, 0}, 20, 0},
		{"upper bound", []float64{0.9999, 0.9999, 0.9999, 0.9999}, 99, 359},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, random.NewSequence(tt.draws...))

			s := f.svc.Tracker.Sample("1", base)
			assert.Equal(t, "1", s.VehicleID)
			assert.Equal(t, tt.wantSpeed, s.Speed)
			assert.Equal(t, tt.wantHeading, s.Heading)
			assert.Equal(t, model.MovementMoving, s.Status)
			assert.Equal(t, testNow, s.Timestamp)
			assert.InDelta(t, base.Lat+(tt.draws[0]-0.5)*0.01, s.Location.Lat, 1e-12)
			assert.InDelta(t, base.Lng+(tt.draws[1]-0.5)*0.01, s.Location.Lng, 1e-12)
			assert.LessOrEqual(t, abs(s.Location.Lat-base.Lat), 0.005)
		})
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func TestLocate(t *testing.T) {
	f := newFixture(t, random.NewSequence(0.5))
	ctx := context.Background()

	base, err := f.svc.Tracker.Locate(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, model.Coordinate{Lat: -23.5489, Lng: -46.6388}, base)

	base, err = f.svc.Tracker.Locate(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, model.Coordinate{Lat: -23.5505, Lng: -46.6333}, base)
}

func TestHistory(t *testing.T) {
	f := newFixture(t, random.New(7))
	base := model.Coordinate{Lat: -23.5505, Lng: -46.6333}

	tests := []struct {
		name    string
		hours   int
		wantLen int
		wantErr bool
	}{
		{"default window", 0, DefaultHistoryWindow, false},
		{"single hour", 1, 1, false},
		{"one week", MaxHistoryWindow, MaxHistoryWindow, false},
		{"too long", MaxHistoryWindow + 1, 0, true},
		{"negative", -3, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := f.svc.Tracker.History("1", base, tt.hours)
			if tt.wantErr {
				var verr *core.ValidationError
				require.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)

			var samples []model.TelemetrySample
			for s := range seq {
				samples = append(samples, s)
			}
			require.Len(t, samples, tt.wantLen)
			assert.Equal(t, testNow, samples[len(samples)-1].Timestamp)
			assert.Equal(t, testNow.Add(-time.Duration(tt.wantLen-1)*time.Hour), samples[0].Timestamp)
			for i := 1; i < len(samples); i++ {
				assert.Equal(t, time.Hour, samples[i].Timestamp.Sub(samples[i-1].Timestamp))
			}
		})
	}
}

func TestHistoryIsRestartable(t *testing.T) {
	f := newFixture(t, random.New(7))

	seq, err := f.svc.Tracker.History("1", model.Coordinate{}, 3)
	require.NoError(t, err)

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	assert.Equal(t, 3, count())

	f.clock.Step(2 * time.Hour)
	var last model.TelemetrySample
	for s := range seq {
		last = s
	}
	assert.Equal(t, testNow.Add(2*time.Hour), last.Timestamp)
	assert.Equal(t, 3, count())
}

func TestWatch(t *testing.T) {
	f := newFixture(t, random.New(7))
	ctx, cancel := context.WithCancel(context.Background())

	ch := f.svc.Tracker.Watch(ctx, "1", model.Coordinate{}, 5*time.Second)

	first := <-ch
	assert.Equal(t, testNow, first.Timestamp)

	f.clock.Step(5 * time.Second)
	select {
	case s := <-ch:
		assert.Equal(t, testNow.Add(5*time.Second), s.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("no sample after tick")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

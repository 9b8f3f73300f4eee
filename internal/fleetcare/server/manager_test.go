package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeServer struct {
	err error
}

func (f fakeServer) Start(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

func TestManagerStopsOnFirstError(t *testing.T) {
	boom := errors.New("listen: address in use")
	m := &Manager{servers: []Server{fakeServer{}, fakeServer{err: boom}}}

	done := make(chan error, 1)
	go func() { done <- m.Start(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}
}

func TestManagerStopsOnCancel(t *testing.T) {
	m := &Manager{servers: []Server{fakeServer{}, fakeServer{}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, m.Start(ctx))
}

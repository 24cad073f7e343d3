package main

import (
	"context"
	"errors"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	startErr error
	stopped  chan struct{}

	mu     sync.Mutex
	events []string
}

func newFakeServer() *fakeServer {
	return &fakeServer{stopped: make(chan struct{})}
}

func (f *fakeServer) record(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeServer) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stopped
	return nil
}

// Shutdown unblocks Start before it finishes, like fiber does, so serve has
// to wait for the rest of the shutdown on its own.
func (f *fakeServer) Shutdown(context.Context) error {
	close(f.stopped)
	time.Sleep(20 * time.Millisecond)
	f.record("server closed")
	return nil
}

func TestServe_WaitsForShutdownToFinish(t *testing.T) {
	srv := newFakeServer()
	stop := make(chan os.Signal, 1)
	tracing := func(context.Context) error {
		time.Sleep(20 * time.Millisecond)
		srv.record("tracer flushed")
		return errors.New("collector unreachable")
	}

	stop <- syscall.SIGTERM
	require.NoError(t, serve(srv, stop, tracing, time.Second))

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, []string{"server closed", "tracer flushed"}, srv.events)
}

func TestServe_StartError(t *testing.T) {
	srv := newFakeServer()
	srv.startErr = errors.New("address already in use")

	err := serve(srv, make(chan os.Signal), func(context.Context) error { return nil }, time.Second)
	assert.EqualError(t, err, "address already in use")
}

// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTreeConfig_Defaults(t *testing.T) {
	t.Parallel()
	tree := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	got := tree.Config()
	if got.FailureThreshold != 5 || got.FailureDecay != 30 || got.FailureBackoff != 15*time.Second {
		t.Errorf("defaults not applied: %+v", got)
	}
	if got.ShutdownTimeout != time.Second {
		t.Errorf("explicit ShutdownTimeout overwritten: %v", got.ShutdownTimeout)
	}
}

func TestTree_StartsEveryLayerAndStops(t *testing.T) {
	t.Parallel()
	tree := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	svcs := []*mockService{newMockService("data"), newMockService("messaging"), newMockService("api")}
	tree.AddDataService(svcs[0])
	tree.AddMessagingService(svcs[1])
	tree.AddAPIService(svcs[2])

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)

	for _, s := range svcs {
		s := s
		waitFor(t, s.name+" start", func() bool { return s.starts.Load() >= 1 })
	}

	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("tree exit = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}
}

func TestTree_RestartsFailingService(t *testing.T) {
	t.Parallel()
	tree := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	flaky := newMockService("flaky")
	flaky.maxFails = 2
	stable := newMockService("stable")
	tree.AddMessagingService(flaky)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.ServeBackground(ctx)

	waitFor(t, "flaky restarts", func() bool { return flaky.starts.Load() >= 3 })
	if stable.starts.Load() != 1 {
		t.Errorf("stable service started %d times, want 1", stable.starts.Load())
	}
}

type fakeServer struct {
	listenErr error
	stop      chan struct{}
	shutdowns atomic.Int32
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.shutdowns.Add(1)
	close(f.stop)
	return nil
}

func TestHTTPServerService(t *testing.T) {
	t.Parallel()

	t.Run("graceful shutdown on cancel", func(t *testing.T) {
		t.Parallel()
		srv := &fakeServer{stop: make(chan struct{})}
		svc := NewHTTPServerService(srv, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Serve(ctx) }()
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve = %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
		if srv.shutdowns.Load() != 1 {
			t.Errorf("Shutdown called %d times", srv.shutdowns.Load())
		}
	})

	t.Run("listen failure is reported", func(t *testing.T) {
		t.Parallel()
		srv := &fakeServer{listenErr: errors.New("address in use"), stop: make(chan struct{})}
		err := NewHTTPServerService(srv, 0).Serve(context.Background())
		if err == nil || srv.shutdowns.Load() != 0 {
			t.Errorf("Serve = %v, shutdowns = %d", err, srv.shutdowns.Load())
		}
	})

	if got := NewHTTPServerService(&fakeServer{}, 0).String(); got != "http-server" {
		t.Errorf("String = %q", got)
	}
}

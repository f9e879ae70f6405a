package ctxsync_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/karupanerura/cts2-mapentry/internal/ctxsync"
	"golang.org/x/sync/errgroup"
)

func TestGate(t *testing.T) {
	t.Parallel()

	t.Run("OpenReleasesWaiters", func(t *testing.T) {
		t.Parallel()

		gate := ctxsync.NewGate()
		var eg errgroup.Group
		for range 8 {
			eg.Go(func() error {
				return gate.WaitCtx(t.Context())
			})
		}

		time.Sleep(50 * time.Millisecond)
		if gate.IsOpen() {
			t.Fatal("gate must be closed before Open")
		}
		if !gate.Open(nil) {
			t.Fatal("first Open must report true")
		}
		if err := eg.Wait(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !gate.IsOpen() {
			t.Error("gate must be open after Open")
		}
	})

	t.Run("OpenWithError", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("load failed")
		gate := ctxsync.NewGate()
		gate.Open(wantErr)
		if gate.Open(nil) {
			t.Error("second Open must report false")
		}
		if err := gate.WaitCtx(t.Context()); !errors.Is(err, wantErr) {
			t.Errorf("WaitCtx: got %v, want %v", err, wantErr)
		}
	})

	t.Run("CanceledContext", func(t *testing.T) {
		t.Parallel()

		gate := ctxsync.NewGate()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if err := gate.WaitCtx(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("WaitCtx: got %v, want %v", err, context.Canceled)
		}
	})

	t.Run("OpenGateWinsOverCanceledContext", func(t *testing.T) {
		t.Parallel()

		gate := ctxsync.NewGate()
		gate.Open(nil)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if err := gate.WaitCtx(ctx); err != nil {
			t.Errorf("WaitCtx: got %v, want nil", err)
		}
	})
}

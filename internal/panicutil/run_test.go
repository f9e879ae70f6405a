package panicutil_test

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/karupanerura/cts2-mapentry/internal/panicutil"
	"github.com/sourcegraph/conc/panics"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("Normal return with no error", func(t *testing.T) {
		t.Parallel()

		if err := panicutil.Run(func() error { return nil }, nil); err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
	})

	t.Run("Normal return with error", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("source unavailable")
		if err := panicutil.Run(func() error { return wantErr }, nil); !errors.Is(err, wantErr) {
			t.Errorf("expected error %v, got: %v", wantErr, err)
		}
	})

	t.Run("Panic with string", func(t *testing.T) {
		t.Parallel()

		err := panicutil.Run(func() error {
			panic("broken source")
		}, nil)
		var recoveredErr *panics.ErrRecovered
		if !errors.As(err, &recoveredErr) {
			t.Fatalf("expected error to be of type *panics.ErrRecovered, got: %T", err)
		}
		if recoveredErr.Value != "broken source" {
			t.Errorf("expected panic value 'broken source', got: %v", recoveredErr.Value)
		}
	})

	t.Run("Panic with error", func(t *testing.T) {
		t.Parallel()

		customErr := errors.New("custom error")
		err := panicutil.Run(func() error {
			panic(customErr)
		}, nil)
		var recoveredErr *panics.ErrRecovered
		if !errors.As(err, &recoveredErr) {
			t.Fatalf("expected error to be of type *panics.ErrRecovered, got: %T", err)
		}
		if recoveredErr.Value != customErr {
			t.Errorf("expected panic value custom error, got: %v", recoveredErr.Value)
		}
	})

	t.Run("Runtime.Goexit", func(t *testing.T) {
		t.Parallel()

		var (
			wg       sync.WaitGroup
			called   bool
			returned bool
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = panicutil.Run(func() error {
				runtime.Goexit()
				return nil // unreachable
			}, func() {
				called = true
			})
			returned = true
		}()
		wg.Wait()

		if !called {
			t.Error("onGoexit must be called")
		}
		if returned {
			t.Error("Run must not return after runtime.Goexit")
		}
	})
}

package memindex_test

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/cts2-mapentry/index"
	"github.com/karupanerura/cts2-mapentry/index/memindex"
	"github.com/sourcegraph/conc/panics"
	"golang.org/x/sync/errgroup"
)

var sampleSource = index.StaticIndexSource[string, string]{
	"C0001": {"S200", "S100", "S200"},
	"C0002": {"S300"},
	"C0003": {},
}

func loadedIndex(t *testing.T) *memindex.Index[string, string] {
	t.Helper()

	idx := memindex.New[string, string](sampleSource)
	if err := idx.Load(t.Context()); err != nil {
		t.Fatalf("failed to load index: %v", err)
	}
	return idx
}

func TestIndex_Get(t *testing.T) {
	t.Parallel()

	idx := loadedIndex(t)
	for _, tt := range []struct {
		name string
		key  string
		want []string
	}{
		{name: "sorted and deduplicated", key: "C0001", want: []string{"S100", "S200"}},
		{name: "single code", key: "C0002", want: []string{"S300"}},
		{name: "empty set is not stored", key: "C0003", want: nil},
		{name: "unknown", key: "C9999", want: nil},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := idx.Get(t.Context(), tt.key)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("unexpected result (-want +got):\n%s", diff)
			}
		})
	}

	if got := idx.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestIndex_GetMulti(t *testing.T) {
	t.Parallel()

	idx := loadedIndex(t)
	got, err := idx.GetMulti(t.Context(), []string{"C0001", "C0003", "C9999", "C0002"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string][]string{
		"C0001": {"S100", "S200"},
		"C0002": {"S300"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestIndex_ReturnsCopies(t *testing.T) {
	t.Parallel()

	idx := loadedIndex(t)
	got, err := idx.Get(t.Context(), "C0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got[0] = "mutated"

	multi, err := idx.GetMulti(t.Context(), []string{"C0001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	multi["C0001"][1] = "mutated"

	again, err := idx.Get(t.Context(), "C0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"S100", "S200"}, again); diff != "" {
		t.Errorf("index must not be mutated by callers (-want +got):\n%s", diff)
	}
}

func TestIndex_LoadOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	idx := memindex.New[string, string](index.FunctionIndexSource[string, string](func(context.Context) (map[string][]string, error) {
		calls++
		return map[string][]string{"C0001": {"S100"}}, nil
	}))
	if idx.Loaded() {
		t.Fatal("index must not be loaded before Load")
	}
	if err := idx.Load(t.Context()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := idx.Load(t.Context()); !errors.Is(err, memindex.ErrAlreadyLoaded) {
		t.Errorf("second Load: got %v, want %v", err, memindex.ErrAlreadyLoaded)
	}
	if calls != 1 {
		t.Errorf("source called %d times, want 1", calls)
	}
	if !idx.Loaded() {
		t.Error("index must be loaded after Load")
	}
}

func TestIndex_LoadError(t *testing.T) {
	t.Parallel()

	sourceErr := errors.New("data file missing")
	idx := memindex.New[string, string](index.FunctionIndexSource[string, string](func(context.Context) (map[string][]string, error) {
		return nil, sourceErr
	}))
	if err := idx.Load(t.Context()); !errors.Is(err, sourceErr) {
		t.Fatalf("Load: got %v, want %v", err, sourceErr)
	}

	if _, err := idx.Get(t.Context(), "C0001"); !errors.Is(err, sourceErr) {
		t.Errorf("Get after failed load: got %v, want %v", err, sourceErr)
	}
	if _, err := idx.GetMulti(t.Context(), []string{"C0001"}); !errors.Is(err, sourceErr) {
		t.Errorf("GetMulti after failed load: got %v, want %v", err, sourceErr)
	}
}

func TestIndex_LoadPanic(t *testing.T) {
	t.Parallel()

	idx := memindex.New[string, string](index.FunctionIndexSource[string, string](func(context.Context) (map[string][]string, error) {
		panic("corrupt source")
	}))

	err := idx.Load(t.Context())
	var recovered *panics.ErrRecovered
	if !errors.As(err, &recovered) {
		t.Fatalf("Load: expected *panics.ErrRecovered, got %T (%v)", err, err)
	}
	if _, err := idx.Get(t.Context(), "C0001"); !errors.As(err, &recovered) {
		t.Errorf("Get after panicking load: expected *panics.ErrRecovered, got %v", err)
	}
}

func TestIndex_LoadGoexit(t *testing.T) {
	t.Parallel()

	idx := memindex.New[string, string](index.FunctionIndexSource[string, string](func(context.Context) (map[string][]string, error) {
		runtime.Goexit()
		return nil, nil // unreachable
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = idx.Load(t.Context())
	}()
	<-done

	if _, err := idx.Get(t.Context(), "C0001"); !errors.Is(err, memindex.ErrLoadAborted) {
		t.Errorf("Get after aborted load: got %v, want %v", err, memindex.ErrLoadAborted)
	}
}

func TestIndex_Concurrency(t *testing.T) {
	t.Parallel()

	t.Run("ReadersWaitForLoad", func(t *testing.T) {
		t.Parallel()

		idx := memindex.New[string, string](sampleSource)

		var eg errgroup.Group
		for range 16 {
			eg.Go(func() error {
				got, err := idx.Get(t.Context(), "C0001")
				if err != nil {
					return err
				}
				if diff := cmp.Diff([]string{"S100", "S200"}, got); diff != "" {
					t.Errorf("unexpected result (-want +got):\n%s", diff)
				}
				return nil
			})
			eg.Go(func() error {
				got, err := idx.GetMulti(t.Context(), []string{"C0002"})
				if err != nil {
					return err
				}
				if diff := cmp.Diff(map[string][]string{"C0002": {"S300"}}, got); diff != "" {
					t.Errorf("unexpected result (-want +got):\n%s", diff)
				}
				return nil
			})
		}

		time.Sleep(100 * time.Millisecond)
		if err := idx.Load(t.Context()); err != nil {
			t.Fatalf("failed to load index: %v", err)
		}
		if err := eg.Wait(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("TimeoutWaitingForLoad", func(t *testing.T) {
		t.Parallel()

		idx := memindex.New[string, string](sampleSource)

		ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
		defer cancel()
		if _, err := idx.Get(ctx, "C0001"); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Get: got %v, want context deadline exceeded", err)
		}
		if _, err := idx.GetMulti(ctx, []string{"C0001"}); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("GetMulti: got %v, want context deadline exceeded", err)
		}
	})
}

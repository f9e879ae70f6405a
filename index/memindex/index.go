package memindex

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	mapentry "github.com/karupanerura/cts2-mapentry"
	"github.com/karupanerura/cts2-mapentry/internal/ctxsync"
	"github.com/karupanerura/cts2-mapentry/internal/panicutil"
)

var (
	// ErrAlreadyLoaded is returned by Load when the index has already been loaded or is loading.
	ErrAlreadyLoaded = errors.New("memindex: index already loaded")

	// ErrLoadAborted is returned to readers when the source terminated the loading goroutine.
	ErrLoadAborted = errors.New("memindex: load aborted")
)

// Index is an in-memory index from source keys to sets of target keys.
type Index[SourceKey mapentry.KeyConstraint, TargetKey cmp.Ordered] struct {
	source  mapentry.IndexSource[SourceKey, TargetKey]
	started atomic.Bool
	ready   *ctxsync.Gate

	// m is written once before ready opens and only read afterwards.
	m    map[SourceKey][]TargetKey
	size atomic.Int64
}

var _ mapentry.Index[string, string] = (*Index[string, string])(nil)
var _ mapentry.LoadIndex = (*Index[string, string])(nil)

// New creates an empty index that will be loaded from source.
func New[SourceKey mapentry.KeyConstraint, TargetKey cmp.Ordered](source mapentry.IndexSource[SourceKey, TargetKey]) *Index[SourceKey, TargetKey] {
	return &Index[SourceKey, TargetKey]{
		source: source,
		ready:  ctxsync.NewGate(),
	}
}

// Load retrieves all the entries from the source and makes the index readable.
// It may be called only once. If the source fails, the error is returned and
// every reader, current or future, receives it as well.
func (i *Index[SourceKey, TargetKey]) Load(ctx context.Context) error {
	if !i.started.CompareAndSwap(false, true) {
		return ErrAlreadyLoaded
	}

	var m map[SourceKey][]TargetKey
	if err := panicutil.Run(func() (err error) {
		m, err = i.source.GetAll(ctx)
		return
	}, func() {
		i.ready.Open(ErrLoadAborted)
	}); err != nil {
		err = fmt.Errorf("memindex: load: %w", err)
		i.ready.Open(err)
		return err
	}

	i.m = compact(m)
	i.size.Store(int64(len(i.m)))
	i.ready.Open(nil)
	return nil
}

// Loaded reports whether Load has completed, successfully or not.
func (i *Index[SourceKey, TargetKey]) Loaded() bool {
	return i.ready.IsOpen()
}

// Len returns the number of source keys. It is zero until Load succeeds.
func (i *Index[SourceKey, TargetKey]) Len() int {
	return int(i.size.Load())
}

// Get retrieves the target keys of a source key.
// This method is blocked until the index is loaded.
func (i *Index[SourceKey, TargetKey]) Get(ctx context.Context, key SourceKey) ([]TargetKey, error) {
	if err := i.ready.WaitCtx(ctx); err != nil {
		return nil, err
	}

	targets, ok := i.m[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(targets), nil
}

// GetMulti retrieves the target keys of multiple source keys.
// This method is blocked until the index is loaded.
func (i *Index[SourceKey, TargetKey]) GetMulti(ctx context.Context, keys []SourceKey) (map[SourceKey][]TargetKey, error) {
	if err := i.ready.WaitCtx(ctx); err != nil {
		return nil, err
	}

	m := make(map[SourceKey][]TargetKey, len(keys))
	for _, key := range keys {
		if targets, ok := i.m[key]; ok {
			m[key] = slices.Clone(targets)
		}
	}
	return m, nil
}

// compact copies m into a map whose values are sorted sets.
// Keys without values are dropped.
func compact[SourceKey mapentry.KeyConstraint, TargetKey cmp.Ordered](m map[SourceKey][]TargetKey) map[SourceKey][]TargetKey {
	result := make(map[SourceKey][]TargetKey, len(m))
	for key, targets := range m {
		if len(targets) == 0 {
			continue
		}
		targets = slices.Clone(targets)
		slices.Sort(targets)
		result[key] = slices.Clip(slices.Compact(targets))
	}
	return result
}

package index

import (
	"context"
	"maps"
	"slices"

	mapentry "github.com/karupanerura/cts2-mapentry"
)

// FunctionsIndex is an index that delegates to functions. Useful for testing.
type FunctionsIndex[SourceKey mapentry.KeyConstraint, TargetKey mapentry.KeyConstraint] struct {
	GetFunc      func(context.Context, SourceKey) ([]TargetKey, error)
	GetMultiFunc func(context.Context, []SourceKey) (map[SourceKey][]TargetKey, error)
}

var _ mapentry.Index[string, string] = (*FunctionsIndex[string, string])(nil)

// Get calls GetFunc.
func (f *FunctionsIndex[SourceKey, TargetKey]) Get(ctx context.Context, key SourceKey) ([]TargetKey, error) {
	return f.GetFunc(ctx, key)
}

// GetMulti calls GetMultiFunc.
func (f *FunctionsIndex[SourceKey, TargetKey]) GetMulti(ctx context.Context, keys []SourceKey) (map[SourceKey][]TargetKey, error) {
	return f.GetMultiFunc(ctx, keys)
}

// FunctionIndexSource is an index source backed by a function.
type FunctionIndexSource[SourceKey mapentry.KeyConstraint, TargetKey mapentry.KeyConstraint] func(context.Context) (map[SourceKey][]TargetKey, error)

var _ mapentry.IndexSource[string, string] = (FunctionIndexSource[string, string])(nil)

// GetAll calls the function.
func (f FunctionIndexSource[SourceKey, TargetKey]) GetAll(ctx context.Context) (map[SourceKey][]TargetKey, error) {
	return f(ctx)
}

// StaticIndexSource is an index source that serves a fixed mapping.
// GetAll returns a deep copy so callers may keep or modify the result.
type StaticIndexSource[SourceKey mapentry.KeyConstraint, TargetKey mapentry.KeyConstraint] map[SourceKey][]TargetKey

var _ mapentry.IndexSource[string, string] = (StaticIndexSource[string, string])(nil)

// GetAll returns a copy of the mapping.
func (s StaticIndexSource[SourceKey, TargetKey]) GetAll(context.Context) (map[SourceKey][]TargetKey, error) {
	m := maps.Clone(map[SourceKey][]TargetKey(s))
	for k, v := range m {
		m[k] = slices.Clone(v)
	}
	return m, nil
}

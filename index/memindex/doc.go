// Package memindex provides the in-memory concept index.
//
// An Index is built from a mapentry.IndexSource exactly once. Until Load
// completes, readers wait (honouring their context), which gives the process
// a one-time barrier between loading the data and serving requests. After
// Load the mapping never changes, so reads take no locks.
//
// Basic Usage:
//
//	source := index.StaticIndexSource[string, string]{
//	    "C0001": {"S200", "S100"},
//	    "C0002": {"S300"},
//	}
//
//	idx := memindex.New[string, string](source)
//	if err := idx.Load(ctx); err != nil {
//	    return err
//	}
//
//	codes, err := idx.Get(ctx, "C0001")
//	// codes contains [S100 S200]
//
// Index Features:
//
// - Load runs once; later calls return ErrAlreadyLoaded
// - Target keys are deduplicated and sorted at load time
// - Source keys without target keys are never stored
// - Reads return copies, so callers cannot mutate the index
// - A failed or aborted load releases waiting readers with the load error
package memindex

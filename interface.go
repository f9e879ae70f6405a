package mapentry

import (
	"context"
)

// KeyConstraint is an interface for key constraints.
type KeyConstraint interface {
	comparable
}

// Index maps a source identifier to the target identifiers it translates to.
// Implementations must be safe for concurrent use.
type Index[SourceKey KeyConstraint, TargetKey KeyConstraint] interface {
	// Get retrieves the target keys of a source key.
	// It returns nil if the source key is unknown.
	Get(context.Context, SourceKey) ([]TargetKey, error)

	// GetMulti retrieves the target keys of multiple source keys.
	// Unknown source keys are absent from the returned map.
	GetMulti(context.Context, []SourceKey) (map[SourceKey][]TargetKey, error)
}

// LoadIndex is an index populated from its source exactly once.
type LoadIndex interface {
	// Load reads the whole source and makes the index readable.
	// Readers that arrive before Load completes wait for it.
	Load(context.Context) error
}

// IndexSource is an interface for the data an index is built from.
type IndexSource[SourceKey KeyConstraint, TargetKey KeyConstraint] interface {
	// GetAll retrieves all source keys and their corresponding target keys.
	GetAll(context.Context) (map[SourceKey][]TargetKey, error)
}

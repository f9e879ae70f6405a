package mapentry

import (
	"context"
	"slices"
)

// MapEntry is a CUI together with the SNOMED CT codes it maps to.
// Codes are in lexicographic order and contain no duplicates.
type MapEntry struct {
	CUI   string
	Codes []string
}

// LookupResult is the outcome of looking up a single CUI.
type LookupResult struct {
	// Entry is valid only when Found is true.
	Entry MapEntry

	// Found is false when the CUI is unknown to the index.
	Found bool
}

// Resolution is the outcome of resolving a list of CUIs.
// A resolution either holds an entry for every requested CUI or none at all.
type Resolution struct {
	// Entries has one entry per requested CUI, in request order.
	// It is nil when Missing is set.
	Entries []MapEntry

	// Missing is the first requested CUI that is unknown to the index.
	Missing string

	found bool
}

// Found reports whether every requested CUI was found.
func (r Resolution) Found() bool {
	return r.found
}

// ConceptIndex looks up CUIs in an index of CUI to SNOMED CT codes.
type ConceptIndex struct {
	index Index[string, string]
}

// NewConceptIndex creates a ConceptIndex backed by index.
func NewConceptIndex(index Index[string, string]) *ConceptIndex {
	return &ConceptIndex{index: index}
}

// Lookup returns the map entry of cui.
// An unknown CUI is not an error; it is reported with Found set to false.
func (c *ConceptIndex) Lookup(ctx context.Context, cui string) (LookupResult, error) {
	codes, err := c.index.Get(ctx, cui)
	if err != nil {
		return LookupResult{}, err
	}
	if len(codes) == 0 {
		return LookupResult{}, nil
	}
	return LookupResult{Entry: newMapEntry(cui, codes), Found: true}, nil
}

// Contains reports whether cui is known to the index.
func (c *ConceptIndex) Contains(ctx context.Context, cui string) (bool, error) {
	result, err := c.Lookup(ctx, cui)
	if err != nil {
		return false, err
	}
	return result.Found, nil
}

// Resolve returns the map entries of cuis in the given order.
// If any CUI is unknown, the resolution carries no entries and names the first unknown CUI.
// The caller is expected to pass a list without duplicates (see NormalizeIdentifiers).
func (c *ConceptIndex) Resolve(ctx context.Context, cuis []string) (Resolution, error) {
	m, err := c.index.GetMulti(ctx, cuis)
	if err != nil {
		return Resolution{}, err
	}

	entries := make([]MapEntry, 0, len(cuis))
	for _, cui := range cuis {
		codes := m[cui]
		if len(codes) == 0 {
			return Resolution{Missing: cui}, nil
		}
		entries = append(entries, newMapEntry(cui, codes))
	}
	return Resolution{Entries: entries, found: true}, nil
}

func newMapEntry(cui string, codes []string) MapEntry {
	codes = slices.Clone(codes)
	slices.Sort(codes)
	return MapEntry{CUI: cui, Codes: slices.Compact(codes)}
}

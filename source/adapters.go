package source

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	mapentry "github.com/karupanerura/cts2-mapentry"
	"github.com/karupanerura/cts2-mapentry/internal/iterutil"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyIdentifier is returned by LintSource when a source yields an empty identifier.
	ErrEmptyIdentifier = errors.New("source: empty identifier")

	// ErrEmptyCodes is returned by LintSource when a source yields an identifier without codes.
	ErrEmptyCodes = errors.New("source: identifier without codes")
)

// LintSource is an index source that is used for linting purposes.
// It validates that the wrapped source follows the IndexSource contract.
type LintSource struct {
	Source mapentry.IndexSource[string, string]
}

var _ mapentry.IndexSource[string, string] = (*LintSource)(nil)

// GetAll retrieves all the entries from the source.
// It checks that every identifier is non-empty and maps to at least one non-empty code.
func (s *LintSource) GetAll(ctx context.Context) (map[string][]string, error) {
	m, err := s.Source.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, cui := range slices.Sorted(maps.Keys(m)) {
		if cui == "" {
			return nil, ErrEmptyIdentifier
		}
		codes := m[cui]
		if len(codes) == 0 || slices.Contains(codes, "") {
			return nil, fmt.Errorf("%w: %s", ErrEmptyCodes, cui)
		}
	}
	return m, nil
}

// UnionSource is an index source that merges several sources.
// The sources are read concurrently and the codes of each identifier are merged with set semantics.
type UnionSource []mapentry.IndexSource[string, string]

var _ mapentry.IndexSource[string, string] = (UnionSource)(nil)

// GetAll retrieves all the entries from every source.
// It fails if any source fails.
func (s UnionSource) GetAll(ctx context.Context) (map[string][]string, error) {
	results := make([]map[string][]string, len(s))
	eg, ctx := errgroup.WithContext(ctx)
	for i, src := range s {
		eg.Go(func() error {
			m, err := src.GetAll(ctx)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	switch len(results) {
	case 0:
		return map[string][]string{}, nil
	case 1:
		return results[0], nil
	}

	merged := map[string][]string{}
	for _, m := range results {
		for cui, codes := range m {
			merged[cui] = slices.Collect(iterutil.Union(slices.Values(merged[cui]), slices.Values(codes)))
		}
	}
	return merged, nil
}

// Pairs accumulates (identifier, code) pairs into sets.
// The zero value is ready to use.
type Pairs struct {
	m map[string]map[string]struct{}
}

// Add records that cui maps to code. Adding the same pair twice has no effect.
func (p *Pairs) Add(cui, code string) {
	if p.m == nil {
		p.m = map[string]map[string]struct{}{}
	}
	codes, ok := p.m[cui]
	if !ok {
		codes = map[string]struct{}{}
		p.m[cui] = codes
	}
	codes[code] = struct{}{}
}

// Len returns the number of distinct identifiers.
func (p *Pairs) Len() int {
	return len(p.m)
}

// Map returns the accumulated sets with codes in lexicographic order.
func (p *Pairs) Map() map[string][]string {
	m := make(map[string][]string, len(p.m))
	for cui, codes := range p.m {
		m[cui] = slices.Sorted(maps.Keys(codes))
	}
	return m
}

package flatfile

import (
	"context"
	"fmt"
	"io"
	"os"

	mapentry "github.com/karupanerura/cts2-mapentry"
)

// Opener opens the mapping file.
type Opener func(context.Context) (io.ReadCloser, error)

// FileOpener opens a local file.
func FileOpener(path string) Opener {
	return func(context.Context) (io.ReadCloser, error) {
		return os.Open(path)
	}
}

// Source is an index source backed by a mapping file.
type Source struct {
	// Name identifies the file in errors.
	Name string

	Open    Opener
	Options ParseOptions
}

var _ mapentry.IndexSource[string, string] = (*Source)(nil)

// NewFileSource creates a source reading the local file at path.
func NewFileSource(path string, opts ParseOptions) *Source {
	return &Source{Name: path, Open: FileOpener(path), Options: opts}
}

// GetAll opens and parses the file.
// Failing to open the file is an error regardless of the malformed line policy.
func (s *Source) GetAll(ctx context.Context) (map[string][]string, error) {
	r, err := s.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("flatfile: open %s: %w", s.Name, err)
	}
	defer r.Close()

	m, err := Parse(ctx, r, s.Options)
	if err != nil {
		return nil, fmt.Errorf("flatfile: %s: %w", s.Name, err)
	}
	return m, nil
}

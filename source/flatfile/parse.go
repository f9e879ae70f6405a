package flatfile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/karupanerura/cts2-mapentry/source"
)

const (
	// Separator separates the fields of a line.
	Separator = "|"

	// MaxLineSize is the longest line the parser accepts. Longer lines are malformed.
	MaxLineSize = 1 << 20

	// checkInterval is the number of lines between context checks.
	checkInterval = 4096

	readBufferSize = 64 * 1024

	// excerptSize bounds LineError.Text of an over-long line.
	excerptSize = 64
)

var (
	// ErrMalformedLine is wrapped by every *LineError.
	ErrMalformedLine = errors.New("flatfile: malformed line")

	// ErrLineTooLong is wrapped by the *LineError of a line longer than MaxLineSize.
	ErrLineTooLong = fmt.Errorf("%w: longer than %d bytes", ErrMalformedLine, MaxLineSize)
)

// LineError describes a malformed line.
type LineError struct {
	// Line is the 1-based line number.
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("flatfile: line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseOptions controls Parse.
type ParseOptions struct {
	Policy Policy

	// OnMalformed is called for every skipped line when Policy is SkipMalformed.
	OnMalformed func(*LineError)
}

// Parse reads pairs from r and returns each CUI with its set of codes in lexicographic order.
func Parse(ctx context.Context, r io.Reader, opts ParseOptions) (map[string][]string, error) {
	var pairs source.Pairs

	// malformed reports lineErr and returns it when the load must stop.
	malformed := func(lineErr *LineError) error {
		if opts.Policy == FailOnMalformed {
			return lineErr
		}
		if opts.OnMalformed != nil {
			opts.OnMalformed(lineErr)
		}
		return nil
	}

	lr := &lineReader{r: bufio.NewReaderSize(r, readBufferSize)}
	for n := 1; ; n++ {
		if n%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line, err := lr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flatfile: read: %w", err)
		}

		if len(line) > MaxLineSize {
			if err := malformed(&LineError{Line: n, Text: string(line[:excerptSize]) + "...", Err: ErrLineTooLong}); err != nil {
				return nil, err
			}
			continue
		}

		text := string(line)
		if strings.TrimSpace(text) == "" {
			continue
		}

		cui, code, err := parseLine(text)
		if err != nil {
			if err := malformed(&LineError{Line: n, Text: text, Err: err}); err != nil {
				return nil, err
			}
			continue
		}
		pairs.Add(cui, code)
	}
	return pairs.Map(), nil
}

// lineReader reads lines of any length, keeping a bounded prefix of each.
type lineReader struct {
	r   *bufio.Reader
	buf []byte
}

// next returns the next line without its terminator, or io.EOF after the last one.
// The line is only valid until the next call.
func (lr *lineReader) next() ([]byte, error) {
	lr.buf = lr.buf[:0]
	for {
		chunk, err := lr.r.ReadSlice('\n')
		if len(lr.buf) <= MaxLineSize+len("\r\n") {
			lr.buf = append(lr.buf, chunk...)
		}

		switch {
		case err == nil:
			return trimEOL(lr.buf), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if len(lr.buf) == 0 {
				return nil, io.EOF
			}
			return trimEOL(lr.buf), nil
		default:
			return nil, err
		}
	}
}

func trimEOL(line []byte) []byte {
	return bytes.TrimSuffix(bytes.TrimSuffix(line, []byte("\n")), []byte("\r"))
}

func parseLine(text string) (cui, code string, err error) {
	fields := strings.SplitN(text, Separator, 3)
	if len(fields) < 2 {
		return "", "", fmt.Errorf("%w: missing code field", ErrMalformedLine)
	}

	cui = strings.TrimSpace(fields[0])
	code = strings.TrimSpace(fields[1])
	switch {
	case cui == "":
		return "", "", fmt.Errorf("%w: empty CUI", ErrMalformedLine)
	case code == "":
		return "", "", fmt.Errorf("%w: empty code", ErrMalformedLine)
	}
	return cui, code, nil
}

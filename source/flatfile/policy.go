package flatfile

import (
	"fmt"
)

// Policy decides what happens to a malformed line.
type Policy int

const (
	// SkipMalformed reports the line through the OnMalformed callback and continues.
	SkipMalformed Policy = iota

	// FailOnMalformed aborts the parse with a *LineError.
	FailOnMalformed
)

// ParsePolicy parses "skip" or "fail".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "skip":
		return SkipMalformed, nil
	case "fail":
		return FailOnMalformed, nil
	default:
		return 0, fmt.Errorf("flatfile: unknown malformed line policy %q", s)
	}
}

func (p Policy) String() string {
	switch p {
	case SkipMalformed:
		return "skip"
	case FailOnMalformed:
		return "fail"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

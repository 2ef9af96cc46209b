package wipe

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidTarget is returned for targets whose length is unusable.
	ErrInvalidTarget = errors.New("invalid wipe target")

	// ErrCancelled marks a run stopped by its context between passes.
	ErrCancelled = errors.New("wipe cancelled")
)

// Kind классифицирует ошибку затирания
type Kind int

const (
	KindIO Kind = iota + 1
	KindShortWrite
	KindInvalidTarget
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "I/O failure"
	case KindShortWrite:
		return "short write"
	case KindInvalidTarget:
		return "invalid target"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error is the fatal error of a wipe run. Offset is the byte offset at which
// the failing write started; for a failed sync it is the target length.
type Error struct {
	Kind   Kind
	Pass   int
	Offset int64
	Mode   Mode
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindInvalidTarget {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s in pass %d at offset %d (mode %s): %v", e.Kind, e.Pass, e.Offset, e.Mode, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var we *Error
	if errors.As(err, &we) {
		return we, true
	}
	return nil, false
}

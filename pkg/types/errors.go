package types

import (
	"errors"
	"fmt"
)

// Kind classifies a failure reported by the greeter.
type Kind int

// Error kinds.
const (
	// KindInvalidArgument covers a missing greeter, a bad name and a
	// missing or zero-capacity output buffer.
	KindInvalidArgument Kind = iota + 1
	// KindTruncation means a rendering did not fit the caller's buffer.
	// The operation still produced a usable, terminated prefix.
	KindTruncation
	// KindAllocationFailure is kept for parity with the C library. The Go
	// runtime aborts on allocation failure, so nothing returns it today.
	KindAllocationFailure
	// KindUseAfterDestroy means an operation reached a destroyed greeter
	// or a stale handle.
	KindUseAfterDestroy
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindTruncation:
		return "truncation"
	case KindAllocationFailure:
		return "allocation failure"
	case KindUseAfterDestroy:
		return "use after destroy"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Greeter operation errors.
var (
	ErrNilGreeter      = errors.New("greeter is nil")
	ErrInvalidBuffer   = errors.New("invalid output buffer")
	ErrBufferTooSmall  = errors.New("buffer too small")
	ErrUseAfterDestroy = errors.New("greeter is destroyed")
	ErrNilHandle       = errors.New("handle is absent")
)

// Error is the error type returned by greeter operations. Op names the
// operation ("create", "greet", "get_name", "set_name").
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Errorf builds an *Error whose message is formatted from format and args.
// A %w verb in format keeps the wrapped sentinel reachable by errors.Is.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or 0 when
// err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsTruncation reports whether err is a soft truncation rather than a
// hard failure.
func IsTruncation(err error) bool {
	return KindOf(err) == KindTruncation
}

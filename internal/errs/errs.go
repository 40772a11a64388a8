package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindIO covers file creation and write failures.
	KindIO Kind = iota + 1
	// KindManifest covers failures of the optional batch manifest.
	KindManifest
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindManifest:
		return "manifest"
	default:
		return "unknown"
	}
}

// Error carries the kind and context of a failure. Lower layers build it and
// forward it; only the command boundary prints it.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IO wraps err as an I/O failure for op on path.
func IO(op, path string, err error) error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// Manifest wraps err as a manifest failure.
func Manifest(op string, err error) error {
	return &Error{Kind: KindManifest, Op: op, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

package filestore

import (
	"errors"
	"fmt"
)

// ErrStorage is the root of every backend failure. Use errors.Is to match
// it or one of the more specific values below.
var ErrStorage = errors.New("storage error")

var (
	// ErrSizeLimitExceeded is returned by Store before any backend I/O when
	// the content is larger than the configured ceiling.
	ErrSizeLimitExceeded = fmt.Errorf("%w: file size limit exceeded", ErrStorage)

	// ErrNotFound is returned when a locator points at nothing.
	ErrNotFound = fmt.Errorf("%w: file not found", ErrStorage)

	// ErrInvalidName is returned for filenames or owner ids that cannot form
	// a locator segment.
	ErrInvalidName = fmt.Errorf("%w: invalid file name", ErrStorage)
)

var (
	// ErrNotImplemented is returned by every data operation of the gridfs
	// backend.
	ErrNotImplemented = errors.New("storage backend not implemented")

	// ErrUnknownBackend is returned by New for a backend outside the
	// supported set.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Error carries backend detail for a failed operation. It matches
// ErrStorage and unwraps to the underlying cause.
type Error struct {
	Op      string
	Backend Backend
	Locator string
	Err     error
}

func (e *Error) Error() string {
	if e.Locator == "" {
		return fmt.Sprintf("filestore: %s on %s: %v", e.Op, e.Backend, e.Err)
	}
	return fmt.Sprintf("filestore: %s %q on %s: %v", e.Op, e.Locator, e.Backend, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrStorage
}

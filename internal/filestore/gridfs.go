package filestore

import (
	"context"
	"time"
)

// gridfsBackend is selectable but has no data path yet. Every read or write
// fails with ErrNotImplemented.
type gridfsBackend struct{}

func (gridfsBackend) store(context.Context, []byte, string, string, FileType, string) (string, string, error) {
	return "", "", ErrNotImplemented
}

func (gridfsBackend) retrieve(context.Context, string) ([]byte, error) {
	return nil, ErrNotImplemented
}

func (gridfsBackend) delete(context.Context, string) (bool, error) {
	return false, ErrNotImplemented
}

func (gridfsBackend) exists(context.Context, string) (bool, error) {
	return false, ErrNotImplemented
}

func (gridfsBackend) cleanupTemp(context.Context, time.Time) int {
	return 0
}

func (gridfsBackend) publicDir() (string, bool) {
	return "", false
}

func (gridfsBackend) kind() Backend {
	return BackendGridFS
}

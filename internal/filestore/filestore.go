// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package filestore stores uploaded file content behind one contract for
// every backend.
//
// The backend is picked once from configuration by New. Callers only ever
// see opaque locators returned by Store and hand them back to Retrieve,
// Delete and Exists; they never build or parse backend paths.
//
// Locators are deterministic in (file type, owner, filename): storing the
// same name twice for the same owner and type overwrites the first payload.
package filestore

//go:generate mockgen -source=filestore.go -destination=../mock/filestore_mock.go -package=mock

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/logger"
)

// FileType partitions stored files.
type FileType string

const (
	FileTypeAgents  FileType = "agents"
	FileTypeGeneral FileType = "general"
	FileTypeTemp    FileType = "temp"
)

// ParseFileType maps s to a known type. Unknown values become general.
func ParseFileType(s string) FileType {
	switch ft := FileType(strings.ToLower(strings.TrimSpace(s))); ft {
	case FileTypeAgents, FileTypeGeneral, FileTypeTemp:
		return ft
	}
	return FileTypeGeneral
}

// Backend is the discriminator persisted next to every locator.
type Backend string

const (
	BackendLocal  Backend = config.BackendLocal
	BackendS3     Backend = config.BackendS3
	BackendGridFS Backend = config.BackendGridFS
)

// FileStorage is the storage contract consumed by services and workers.
type FileStorage interface {
	// Store writes content and returns its locator and public URL.
	Store(ctx context.Context, content []byte, filename, ownerID string, fileType FileType, contentType string) (locator, url string, err error)
	// Retrieve reads the content behind locator.
	Retrieve(ctx context.Context, locator string) ([]byte, error)
	// Delete removes the content behind locator. It reports false when there
	// was nothing to remove.
	Delete(ctx context.Context, locator string) (bool, error)
	// Exists never fails: any backend error reads as false.
	Exists(ctx context.Context, locator string) bool
	// Stat is Exists with the backend error kept. It reports (false, nil)
	// only when the backend confirmed there is nothing behind locator.
	Stat(ctx context.Context, locator string) (bool, error)
	// CleanupTemp removes temp files older than olderThan and returns how
	// many were removed.
	CleanupTemp(ctx context.Context, olderThan time.Duration) int
	// Backend names the active backend.
	Backend() Backend
	// PublicDir is the directory served under /uploads, if any.
	PublicDir() (string, bool)
}

// backend is implemented only inside this package; New switches over every
// implementation.
type backend interface {
	store(ctx context.Context, content []byte, filename, ownerID string, fileType FileType, contentType string) (locator, url string, err error)
	retrieve(ctx context.Context, locator string) ([]byte, error)
	delete(ctx context.Context, locator string) (bool, error)
	exists(ctx context.Context, locator string) (bool, error)
	cleanupTemp(ctx context.Context, cutoff time.Time) int
	publicDir() (string, bool)
	kind() Backend
}

var (
	_ backend = (*localBackend)(nil)
	_ backend = (*s3Backend)(nil)
	_ backend = gridfsBackend{}

	_ FileStorage = (*Storage)(nil)
)

// Storage applies the checks shared by every backend and wraps backend
// failures into *Error.
type Storage struct {
	backend backend
	maxSize int64
	now     func() time.Time
	logger  *logger.Logger
}

// New builds the storage selected by cfg.Backend.
func New(ctx context.Context, cfg config.Files, log *logger.Logger) (*Storage, error) {
	var (
		b   backend
		err error
	)

	switch Backend(cfg.Backend) {
	case BackendLocal:
		b, err = newLocalBackend(cfg)
	case BackendS3:
		b, err = newS3Backend(ctx, cfg.S3)
	case BackendGridFS:
		b = gridfsBackend{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, &Error{Op: "init", Backend: Backend(cfg.Backend), Err: err}
	}

	log.Info().Str("func", "filestore.New").Str("backend", cfg.Backend).Msg("file storage initialized")

	return newStorage(b, cfg.MaxFileSize, log), nil
}

func newStorage(b backend, maxSize int64, log *logger.Logger) *Storage {
	return &Storage{
		backend: b,
		maxSize: maxSize,
		now:     time.Now,
		logger:  log,
	}
}

func (s *Storage) Store(ctx context.Context, content []byte, filename, ownerID string, fileType FileType, contentType string) (string, string, error) {
	if int64(len(content)) > s.maxSize {
		return "", "", s.wrap("store", "", ErrSizeLimitExceeded)
	}

	name, err := cleanFilename(filename)
	if err != nil {
		return "", "", s.wrap("store", "", err)
	}
	if err := checkSegment(ownerID); err != nil {
		return "", "", s.wrap("store", "", err)
	}

	locator, url, err := s.backend.store(ctx, content, name, ownerID, ParseFileType(string(fileType)), contentType)
	if err != nil {
		return "", "", s.wrap("store", locator, err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "filestore.Store").
		Str("locator", locator).
		Int("size", len(content)).
		Msg("file stored")

	return locator, url, nil
}

func (s *Storage) Retrieve(ctx context.Context, locator string) ([]byte, error) {
	content, err := s.backend.retrieve(ctx, locator)
	if err != nil {
		return nil, s.wrap("retrieve", locator, err)
	}
	return content, nil
}

func (s *Storage) Delete(ctx context.Context, locator string) (bool, error) {
	deleted, err := s.backend.delete(ctx, locator)
	if err != nil {
		return false, s.wrap("delete", locator, err)
	}
	return deleted, nil
}

func (s *Storage) Exists(ctx context.Context, locator string) bool {
	ok, err := s.backend.exists(ctx, locator)
	if err != nil {
		logger.FromContext(ctx).Debug().
			Str("func", "filestore.Exists").
			Str("locator", locator).
			Err(err).
			Msg("existence check failed")
		return false
	}
	return ok
}

func (s *Storage) Stat(ctx context.Context, locator string) (bool, error) {
	ok, err := s.backend.exists(ctx, locator)
	if err != nil {
		return false, s.wrap("stat", locator, err)
	}
	return ok, nil
}

func (s *Storage) CleanupTemp(ctx context.Context, olderThan time.Duration) int {
	return s.backend.cleanupTemp(ctx, s.now().Add(-olderThan))
}

func (s *Storage) Backend() Backend {
	return s.backend.kind()
}

func (s *Storage) PublicDir() (string, bool) {
	return s.backend.publicDir()
}

func (s *Storage) wrap(op, locator string, err error) error {
	return &Error{Op: op, Backend: s.backend.kind(), Locator: locator, Err: err}
}

// cleanFilename keeps only the last path element of name.
func cleanFilename(name string) (string, error) {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if err := checkSegment(name); err != nil {
		return "", err
	}
	return name, nil
}

func checkSegment(s string) error {
	switch {
	case s == "", s == ".", s == "..", s == "/":
		return ErrInvalidName
	case strings.ContainsAny(s, `/\`), strings.ContainsRune(s, 0):
		return ErrInvalidName
	}
	return nil
}

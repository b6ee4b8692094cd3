package filestore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/ai-pills/internal/config"
)

// UploadsURLPrefix is the URL path under which local files are served.
const UploadsURLPrefix = "/uploads"

// localBackend keeps files under basePath as
// {basePath}/{subpath}/{owner}/{filename}. Locators are absolute paths.
type localBackend struct {
	basePath string
	subpaths map[FileType]string
}

func newLocalBackend(cfg config.Files) (*localBackend, error) {
	base, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	b := &localBackend{
		basePath: base,
		subpaths: map[FileType]string{
			FileTypeAgents:  cfg.AgentsSubpath,
			FileTypeGeneral: cfg.GeneralSubpath,
			FileTypeTemp:    cfg.TempSubpath,
		},
	}

	for _, sub := range b.subpaths {
		if err := os.MkdirAll(filepath.Join(base, sub), 0o755); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (b *localBackend) store(_ context.Context, content []byte, filename, ownerID string, fileType FileType, _ string) (string, string, error) {
	rel := filepath.Join(b.subpaths[fileType], ownerID, filename)
	full := filepath.Join(b.basePath, rel)
	dir := filepath.Dir(full)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return full, "", err
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return full, "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return full, "", err
	}
	if err := tmp.Close(); err != nil {
		return full, "", err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return full, "", err
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return full, "", err
	}

	return full, path.Join(UploadsURLPrefix, filepath.ToSlash(rel)), nil
}

func (b *localBackend) retrieve(_ context.Context, locator string) ([]byte, error) {
	full, ok := b.resolve(locator)
	if !ok {
		return nil, ErrNotFound
	}

	content, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return content, err
}

func (b *localBackend) delete(_ context.Context, locator string) (bool, error) {
	full, ok := b.resolve(locator)
	if !ok {
		return false, nil
	}

	err := os.Remove(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (b *localBackend) exists(_ context.Context, locator string) (bool, error) {
	full, ok := b.resolve(locator)
	if !ok {
		return false, nil
	}

	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// cleanupTemp removes regular files in the temp area modified strictly
// before cutoff. Files that cannot be inspected or removed are skipped.
func (b *localBackend) cleanupTemp(ctx context.Context, cutoff time.Time) int {
	root := filepath.Join(b.basePath, b.subpaths[FileTypeTemp])
	removed := 0

	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) && os.Remove(p) == nil {
			removed++
		}
		return nil
	})

	return removed
}

func (b *localBackend) publicDir() (string, bool) {
	return b.basePath, true
}

func (b *localBackend) kind() Backend {
	return BackendLocal
}

// resolve returns the cleaned absolute path of locator, or false when it
// points outside the base directory.
func (b *localBackend) resolve(locator string) (string, bool) {
	if locator == "" {
		return "", false
	}
	full := filepath.Clean(locator)
	if !filepath.IsAbs(full) {
		full = filepath.Join(b.basePath, full)
	}

	rel, err := filepath.Rel(b.basePath, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}

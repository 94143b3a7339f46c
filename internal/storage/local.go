package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Compile-time check that LocalStore implements Store.
var _ Store = (*LocalStore)(nil)

// LocalStore implements the Store interface using local disk.
// Assets are written into a configurable directory under generated ids.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a new LocalStore instance.
// If dir is empty, a directory under os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "lumina-assets")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create asset directory: %w", err)
	}

	return &LocalStore{dir: dir}, nil
}

// Dir returns the asset directory path.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes the uploaded data under a fresh asset id. The original
// filename only contributes its extension, so container probing keeps
// working on the stored copy.
func (s *LocalStore) Save(ctx context.Context, name string, data io.Reader) (Asset, error) {
	select {
	case <-ctx.Done():
		return Asset{}, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	id := newAssetID(name)
	path := filepath.Join(s.dir, id)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640) // #nosec G304 - id is generated, not user input
	if err != nil {
		return Asset{}, fmt.Errorf("create asset file: %w", err)
	}

	size, err := io.Copy(f, data)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return Asset{}, fmt.Errorf("write asset file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return Asset{}, fmt.Errorf("close asset file: %w", err)
	}

	return Asset{ID: id, Name: filepath.Base(name), Size: size}, nil
}

// Open returns a reader for the stored asset.
func (s *LocalStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	path, err := s.LocalPath(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path) // #nosec G304 - path is validated against the asset directory
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("open asset: %w", err)
	}
	return f, nil
}

// LocalPath resolves an asset id to its on-disk location.
func (s *LocalStore) LocalPath(ctx context.Context, id string) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if !validAssetID(id) {
		return "", ErrAssetNotFound
	}
	path := filepath.Join(s.dir, id)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrAssetNotFound
		}
		return "", fmt.Errorf("stat asset: %w", err)
	}
	return path, nil
}

// Delete removes an asset file. Missing files are ignored.
func (s *LocalStore) Delete(ctx context.Context, id string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if !validAssetID(id) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove asset %s: %w", id, err)
	}
	return nil
}

// newAssetID mints a storage key: a generated id plus the upload's file
// extension when it looks like a normal one.
func newAssetID(name string) string {
	return "ast-" + uuid.NewString() + safeExt(name)
}

// safeExt returns the lowercased extension of name when it is short and
// alphanumeric, otherwise the empty string.
func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) < 2 || len(ext) > 9 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// validAssetID rejects ids that could escape the asset directory.
func validAssetID(id string) bool {
	return strings.HasPrefix(id, "ast-") && filepath.Base(id) == id
}

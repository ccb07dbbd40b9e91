package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	"model-asset-service/internal/core/domain"
	"model-asset-service/internal/core/ports/output"
)

// LocalStorage keeps blobs on a filesystem rooted at a directory.
type LocalStorage struct {
	fs      afero.Fs
	baseURL string
}

// NewLocalStorage roots storage at dir on the OS filesystem.
func NewLocalStorage(dir, baseURL string) (ports.BlobStorage, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root %s: %w", dir, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", root, err)
	}
	return NewLocalStorageFs(afero.NewBasePathFs(afero.NewOsFs(), root), baseURL), nil
}

// NewLocalStorageFs uses fs as the storage root.
func NewLocalStorageFs(fs afero.Fs, baseURL string) *LocalStorage {
	return &LocalStorage{fs: fs, baseURL: baseURL}
}

// Put writes to a temp file first so readers never observe a partial blob.
func (s *LocalStorage) Put(_ context.Context, key string, r io.Reader) (int64, error) {
	name, err := s.name(key)
	if err != nil {
		return 0, err
	}

	dir := path.Dir(name)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(tmpName)
		return 0, fmt.Errorf("write %s: %w", key, err)
	}

	if err := s.fs.Rename(tmpName, name); err != nil {
		_ = s.fs.Remove(tmpName)
		return 0, fmt.Errorf("rename %s: %w", key, err)
	}
	return n, nil
}

func (s *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	name, err := s.name(key)
	if err != nil {
		return nil, domain.ErrBlobNotFound
	}

	f, err := s.fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, fmt.Errorf("open %s: %w", key, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, domain.ErrBlobNotFound
	}
	return f, nil
}

func (s *LocalStorage) Size(_ context.Context, key string) (int64, error) {
	name, err := s.name(key)
	if err != nil {
		return 0, err
	}

	info, err := s.fs.Stat(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, domain.ErrBlobNotFound
		}
		return 0, fmt.Errorf("stat %s: %w", key, err)
	}
	return info.Size(), nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	name, err := s.name(key)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// name maps a key to its rooted path inside fs.
func (s *LocalStorage) name(key string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return "/" + key, nil
}

func (s *LocalStorage) URL(key string) string {
	return joinURL(s.baseURL, key)
}

package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
)

// ErrTooLarge is returned by a FileStore when the body exceeds its limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// FileStore persists uploaded files and returns the URL they are served at.
type FileStore interface {
	Save(ctx context.Context, name string, body io.Reader, limit int64) (url string, err error)
	// Remove deletes the file behind url. A missing file is not an error.
	Remove(ctx context.Context, url string) error
}

// LocalFileStore writes files into a directory served under URLPrefix.
type LocalFileStore struct {
	Dir       string
	URLPrefix string
}

// NewLocalFileStore creates the upload directory if needed.
func NewLocalFileStore(dir, urlPrefix string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalFileStore{Dir: dir, URLPrefix: urlPrefix}, nil
}

// Save copies at most limit bytes into Dir/name. A longer body is rejected
// with ErrTooLarge and the partial file is removed.
func (s *LocalFileStore) Save(ctx context.Context, name string, body io.Reader, limit int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = filepath.Base(name)
	dst := filepath.Join(s.Dir, name)

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(body, limit+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && n > limit {
		err = ErrTooLarge
	}
	if err != nil {
		if rmErr := os.Remove(dst); rmErr != nil {
			log.Printf("[resume] failed to remove partial upload %s: %v", dst, rmErr)
		}
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return path.Join(s.URLPrefix, name), nil
}

// Remove deletes the file a previous Save returned url for.
func (s *LocalFileStore) Remove(_ context.Context, url string) error {
	err := os.Remove(filepath.Join(s.Dir, path.Base(url)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove upload file: %w", err)
	}
	return nil
}

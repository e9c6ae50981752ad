// Package storage keeps uploaded images (team photos, avatars) and hands out
// public URLs for them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var ErrObjectExists = errors.New("object already exists")

// ObjectStore is the upload/public-url pair the rest of the app depends on.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, overwrite bool) error
	PublicURL(key string) string
}

// DiskStore writes objects below Dir and serves them from BaseURL, which the
// router mounts as a static directory.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// ObjectKey namespaces a file by entity and id plus a timestamp so repeated
// uploads for the same row never collide, e.g. teams/3-1717200000.jpg.
func ObjectKey(entity string, id uint, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%d-%d%s", entity, id, now.Unix(), ext)
}

func (s *DiskStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.Dir, filepath.FromSlash(clean)), nil
}

func (s *DiskStore) Upload(ctx context.Context, key string, r io.Reader, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(dst, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrObjectExists, key)
		}
		return fmt.Errorf("open object: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write object: %w", err)
	}
	return f.Close()
}

func (s *DiskStore) PublicURL(key string) string {
	return s.BaseURL + "/" + strings.TrimLeft(key, "/")
}

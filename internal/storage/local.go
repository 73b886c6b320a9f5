// internal/storage/local.go
package storage

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var _ Datasource = (*Local)(nil)

// Local stores objects as flat files under a root directory.
type Local struct {
	root string
}

// NewLocal creates the root directory if needed and returns a local
// datasource rooted there.
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("could not create storage root: %w", err)
	}
	return &Local{root: root}, nil
}

// path resolves an object key inside the root, refusing traversal.
func (l *Local) path(key string) (string, error) {
	p := filepath.Clean(filepath.Join(l.root, key))
	if !strings.HasPrefix(p, filepath.Clean(l.root)+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key: %s", key)
	}
	return p, nil
}

// Save streams the object to disk, avoiding loading it into memory.
func (l *Local) Save(key string, data io.Reader) (int64, error) {
	p, err := l.path(key)
	if err != nil {
		return 0, err
	}
	f, err := os.Create(p)
	if err != nil {
		return 0, fmt.Errorf("could not create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, data)
	if err != nil {
		return 0, fmt.Errorf("could not write file: %w", err)
	}
	return size, nil
}

func (l *Local) Open(key string) (io.ReadCloser, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (l *Local) Delete(key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// FullSize walks the root and sums file sizes. This is the storage
// backend's own accounting, independent of any database metadata.
func (l *Local) FullSize() (int64, error) {
	var total int64
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("could not measure storage: %w", err)
	}
	return total, nil
}

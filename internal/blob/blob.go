// internal/blob/blob.go
package blob

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the content store behind asset uploads. Keys are opaque,
// slash-separated paths; the returned stored path is what callers persist
// and later pass to Delete and Exists. Backends other than local disk
// (S3-compatible stores) plug in behind this interface.
type Store interface {
	Put(key string, data []byte) (string, error)
	Delete(path string) error
	Exists(path string) bool
}

// Local stores blobs under a root directory on the local filesystem.
type Local struct {
	root string
}

func NewLocal(root string) *Local {
	return &Local{root: root}
}

func (l *Local) Put(key string, data []byte) (string, error) {
	const op = "blob.Put"

	full := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("%s: %v", op, err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return "", fmt.Errorf("%s: %v", op, err)
	}
	return key, nil
}

// Delete removes a blob. Deleting a path that does not exist is not an
// error.
func (l *Local) Delete(path string) error {
	const op = "blob.Delete"

	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(path)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %v", op, err)
	}
	return nil
}

func (l *Local) Exists(path string) bool {
	_, err := os.Stat(filepath.Join(l.root, filepath.FromSlash(path)))
	return err == nil
}

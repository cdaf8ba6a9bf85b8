// Package index keeps a queryable copy of a finished Ghost import. build
// rewrites it after every export; inspect opens it read-only to answer
// questions about posts, tags and authors without re-reading the JSON.
package index

import (
	"errors"
	"fmt"
	bolt "go.etcd.io/bbolt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoIndex is returned when a read-only open finds no index file, usually
// because build ran without export.index_path.
var ErrNoIndex = errors.New("export index does not exist")

// lockTimeout bounds the wait on a build that still holds the file.
const lockTimeout = time.Second

// Store is one export index file.
type Store struct {
	db *bolt.DB
}

type OpenOptions struct {
	Path     string // export.index_path, e.g. "./ghost-import.db"
	ReadOnly bool   // inspect
}

// Open opens the export index at opt.Path. A writable open creates the file
// and its parent directory; a read-only open never creates anything.
func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("index: missing path")
	}
	if opt.ReadOnly {
		if _, err := os.Stat(opt.Path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoIndex, opt.Path)
		}
	} else if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{
		Timeout:  lockTimeout,
		ReadOnly: opt.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("open export index %s: %w", opt.Path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Package storage persists index snapshots and history logs as msgpack
// files. Entries older than the store's max age count as stale, so a
// long-abandoned state directory never feeds outdated data back in.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrNotFound is returned when no entry exists under a name.
	ErrNotFound = errors.New("storage: entry not found")
	// ErrStale is returned when an entry exists but is older than the
	// store's max age.
	ErrStale = errors.New("storage: entry is stale")
)

// DefaultMaxAge is how long a persisted entry stays loadable.
const DefaultMaxAge = 30 * 24 * time.Hour

const fileExt = ".bin"

// Store reads and writes named state blobs.
type Store interface {
	Save(name string, v any) error
	Load(name string, v any) error
	Delete(name string) error
}

// FileStore keeps each entry as one msgpack file in a directory. Writes
// go through a temp file and rename, so a crash mid-save leaves the old
// entry intact.
type FileStore struct {
	dir    string
	maxAge time.Duration
}

// NewFileStore opens (creating if needed) a store rooted at dir with the
// default max age.
func NewFileStore(dir string) (*FileStore, error) {
	return NewFileStoreWithMaxAge(dir, DefaultMaxAge)
}

// NewFileStoreWithMaxAge opens a store whose entries expire after maxAge.
// A non-positive maxAge means entries never expire.
func NewFileStoreWithMaxAge(dir string, maxAge time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, maxAge: maxAge}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Save serializes v under name.
func (s *FileStore) Save(name string, v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", name, err)
	}

	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("storage: commit %s: %w", name, err)
	}

	log.Debugf("saved %s (%d bytes)", name, len(data))
	return nil
}

// Load deserializes the entry under name into v. Missing entries return
// ErrNotFound, expired ones ErrStale, and undecodable ones a decode
// error; callers treat all three as "start empty".
func (s *FileStore) Load(name string, v any) error {
	info, err := os.Stat(s.path(name))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("storage: stat %s: %w", name, err)
	}

	if s.maxAge > 0 && time.Since(info.ModTime()) > s.maxAge {
		log.Warnf("entry %s is older than %s, ignoring", name, s.maxAge)
		return ErrStale
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return fmt.Errorf("storage: read %s: %w", name, err)
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("storage: decode %s: %w", name, err)
	}
	return nil
}

// Delete removes the entry under name. Deleting a missing entry is not
// an error.
func (s *FileStore) Delete(name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}

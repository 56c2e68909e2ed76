package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/starford/digimark/internal/apperr"
	"github.com/starford/digimark/internal/checksum"
)

const (
	fileExt    = ".json"
	tmpPattern = ".digimark-tmp-*"
)

var keyRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// FS implements Store with one JSON file per key under a root directory.
type FS struct {
	root string // absolute path to the data directory

	mu sync.Mutex
	// own records the checksum of the last document this process wrote per
	// key; an empty string means this process deleted it.
	own map[string]string
}

// NewFS creates a file store rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs, own: make(map[string]string)}, nil
}

// Root returns the absolute data directory.
func (f *FS) Root() string { return f.root }

// keyPath maps a key to its file. Keys are restricted to a plain slug so no
// key can address anything outside root.
func (f *FS) keyPath(key string) (string, error) {
	if !keyRe.MatchString(key) {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(f.root, key+fileExt), nil
}

// KeyForPath is the inverse of keyPath for files directly under root.
func (f *FS) KeyForPath(path string) (string, bool) {
	if filepath.Dir(path) != f.root {
		return "", false
	}
	name := filepath.Base(path)
	if !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	key := strings.TrimSuffix(name, fileExt)
	return key, keyRe.MatchString(key)
}

func (f *FS) Get(_ context.Context, key string) ([]byte, error) {
	abs, err := f.keyPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storage: get %s: %w", key, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return data, nil
}

// Set atomically writes the value: tmp file → fsync → rename.
func (f *FS) Set(_ context.Context, key string, value []byte) error {
	abs, err := f.keyPath(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, tmpPattern)
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}

	f.mu.Lock()
	f.own[key] = checksum.Sum(value)
	f.mu.Unlock()

	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

func (f *FS) Delete(_ context.Context, key string) error {
	abs, err := f.keyPath(key)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.own[key] = ""
	f.mu.Unlock()
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (f *FS) Close() error { return nil }

// External reports whether the current on-disk state of key differs from
// what this process last wrote, i.e. whether someone else changed it.
func (f *FS) External(key string) bool {
	abs, err := f.keyPath(key)
	if err != nil {
		return false
	}
	f.mu.Lock()
	last, known := f.own[key]
	f.mu.Unlock()

	data, err := os.ReadFile(abs)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return !known || last != ""
	case err != nil:
		return false
	default:
		return !known || !checksum.Equal(data, last)
	}
}

// Adopt records the current on-disk state of key as known, so a change that
// has already been reported is not reported again.
func (f *FS) Adopt(key string) {
	abs, err := f.keyPath(key)
	if err != nil {
		return
	}
	data, err := os.ReadFile(abs)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.own[key] = ""
		return
	}
	f.own[key] = checksum.Sum(data)
}

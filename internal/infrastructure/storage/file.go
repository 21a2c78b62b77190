package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileBacking is the durable backing store: a single JSON document on
// disk, the Go stand-in for native preference storage.
// Implements Backing.
type FileBacking struct {
	mu   sync.Mutex
	path string
}

// NewFileBacking creates a file backing rooted at dir.
func NewFileBacking(dir string) (*FileBacking, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileBacking{path: filepath.Join(dir, "session.json")}, nil
}

func (f *FileBacking) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	entries := map[string]string{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		// A corrupt document is treated as empty; contents are
		// re-derivable by re-running verification.
		return map[string]string{}, nil
	}
	return entries, nil
}

func (f *FileBacking) save(entries map[string]string) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Get retrieves a value by key.
func (f *FileBacking) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return "", false, err
	}
	value, found := entries[key]
	return value, found, nil
}

// Set stores a value under key.
func (f *FileBacking) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return err
	}
	entries[key] = value
	return f.save(entries)
}

// Delete removes a key.
func (f *FileBacking) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return err
	}
	delete(entries, key)
	return f.save(entries)
}

var _ Backing = (*FileBacking)(nil)

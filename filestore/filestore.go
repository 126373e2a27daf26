// Package filestore is a storage.Store that keeps each key in its own file.
package filestore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// New returns a Store rooted at dir. Files are named prefix plus the
// sha256 of the key, so any key is a safe filename.
func New(dir, prefix string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating store dir '%s': %w", dir, err)
	}
	return &Store{dir: dir, prefix: prefix}, nil
}

type Store struct {
	dir, prefix string
}

func (fs *Store) Get(key string) (string, bool, error) {
	hash, filename := fs.hashAndFilename(key)

	bs, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("error reading store file '%s': %w", hash, err)
	}
	return string(bs), true, nil
}

// Set writes to a temporary file and renames it into place, so a reader
// never sees a half-written value.
func (fs *Store) Set(key, value string) error {
	hash, filename := fs.hashAndFilename(key)

	tmp, err := os.CreateTemp(fs.dir, fs.prefix+hash+".*.tmp")
	if err != nil {
		return fmt.Errorf("error opening store file '%s' for write: %w", hash, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing store file '%s': %w", hash, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing store file '%s': %w", hash, err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("error replacing store file '%s': %w", hash, err)
	}
	return nil
}

func (fs *Store) Remove(key string) error {
	hash, filename := fs.hashAndFilename(key)
	if err := os.Remove(filename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error removing store file '%s': %w", hash, err)
	}
	return nil
}

func (fs *Store) hashAndFilename(key string) (string, string) {
	hasher := sha256.New()
	hasher.Write([]byte(key))
	hash := hex.EncodeToString(hasher.Sum(nil))
	return hash, filepath.Join(fs.dir, fs.prefix+hash)
}

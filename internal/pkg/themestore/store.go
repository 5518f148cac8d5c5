// Package themestore persists per-client light/dark preferences in a bbolt file.
// Preferences outlive sessions: a logout never touches them.
package themestore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yigit/nnpgpt/internal/app/models"
	"go.etcd.io/bbolt"
)

var themeBucket = []byte("Themes")

// Store is a bbolt-backed theme preference store
type Store struct {
	db       *bbolt.DB
	fallback models.ThemeMode
}

// Open opens (or creates) the preference file at path
func Open(path string, fallback models.ThemeMode) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create theme store directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open theme store %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(themeBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create theme bucket: %w", err)
	}

	if fallback != models.ThemeDark {
		fallback = models.ThemeLight
	}
	return &Store{db: db, fallback: fallback}, nil
}

// Get returns the stored mode for clientID, or the fallback when none is stored
func (s *Store) Get(clientID string) (models.ThemeMode, error) {
	mode := s.fallback
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(themeBucket)
		if b == nil {
			return fmt.Errorf("bucket %s not found", themeBucket)
		}
		if v := b.Get([]byte(clientID)); v != nil {
			mode = models.ThemeMode(v)
		}
		return nil
	})
	return mode, err
}

// Set stores mode for clientID
func (s *Store) Set(clientID string, mode models.ThemeMode) error {
	if mode != models.ThemeLight && mode != models.ThemeDark {
		return fmt.Errorf("unknown theme mode %q", mode)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(themeBucket).Put([]byte(clientID), []byte(mode))
	})
}

// Close closes the underlying file
func (s *Store) Close() error {
	return s.db.Close()
}

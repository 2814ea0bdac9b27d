// Package store provides the YAML key/value database used as the fallback
// configuration source and scratch state for the bot.
//
// The database is a flat string map persisted to a single YAML file, rewritten
// atomically on every change. It mirrors the JSON runtime configuration as a
// secondary sink so a lost bot_config.json can be recovered.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// DB is a YAML-file-backed key/value store. All operations are thread-safe.
type DB struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// Open loads the database at path, creating an empty one when the file does
// not exist.
func Open(path string) (*DB, error) {
	db := &DB{
		path: path,
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return db, nil
		}
		return nil, fmt.Errorf("reading database: %w", err)
	}

	if err := yaml.Unmarshal(raw, &db.data); err != nil {
		return nil, fmt.Errorf("parsing database: %w", err)
	}
	if db.data == nil {
		db.data = make(map[string]string)
	}
	return db, nil
}

// Get returns the value stored under key.
func (db *DB) Get(key string) (string, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	v, ok := db.data[key]
	return v, ok
}

// Set stores value under key and persists the database.
func (db *DB) Set(key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.data[key] = value
	return db.save()
}

// Delete removes key and persists the database.
func (db *DB) Delete(key string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.data, key)
	return db.save()
}

// Reset drops every key and persists the empty database.
func (db *DB) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.data = make(map[string]string)
	return db.save()
}

// Len returns the number of stored keys.
func (db *DB) Len() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.data)
}

// save writes the database to a temp file and renames it into place.
// Caller must hold db.mu.
func (db *DB) save() error {
	raw, err := yaml.Marshal(db.data)
	if err != nil {
		return fmt.Errorf("encoding database: %w", err)
	}

	tmp := db.path + ".tmp"
	if dir := filepath.Dir(db.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("writing database: %w", err)
	}
	if err := os.Rename(tmp, db.path); err != nil {
		return fmt.Errorf("replacing database: %w", err)
	}
	return nil
}

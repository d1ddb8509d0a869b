package storage

import (
	"fmt"
	"time"
)

// LocalStorage persists small string values across process restarts, the
// client-side equivalent of a browser's local storage.
type LocalStorage interface {
	// Initialize the storage and load existing data
	Initialize() error

	// Close the storage and flush pending writes
	Close() error

	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(keys ...string) error

	// Statistics
	GetStorageStats() (*StorageStats, error)
}

// StorageStats provides information about the local storage
type StorageStats struct {
	Backend        string    `json:"backend"`
	Location       string    `json:"location"`
	KeyCount       int       `json:"keyCount"`
	InitializedAt  time.Time `json:"initializedAt"`
	LastUpdateTime time.Time `json:"lastUpdateTime"`
}

// Open builds and initializes the backend named by kind ("file" or "sqlite") under dir
func Open(kind, dir string) (LocalStorage, error) {
	var s LocalStorage
	switch kind {
	case "file":
		s = NewFileStorage(dir)
	case "sqlite":
		s = NewSQLiteStorage(dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
	if err := s.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize %s storage: %w", kind, err)
	}
	return s, nil
}

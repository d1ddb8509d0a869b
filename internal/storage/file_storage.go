package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStorage implements LocalStorage with an in-memory map mirrored to a JSON file
type FileStorage struct {
	mu             sync.RWMutex
	values         map[string]string
	initializedAt  time.Time
	lastUpdateTime time.Time
	dataFile       string
}

// NewFileStorage creates a file-backed storage rooted at dataDir
func NewFileStorage(dataDir string) *FileStorage {
	return &FileStorage{
		values:   make(map[string]string),
		dataFile: filepath.Join(dataDir, "client_state.json"),
	}
}

// Initialize creates the data directory and loads existing values
func (f *FileStorage) Initialize() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.dataFile), 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	f.initializedAt = time.Now()

	if err := f.loadFromFile(); err != nil {
		// A corrupt file must not block startup; the session is simply lost.
		slog.Warn("Discarding unreadable client state", "path", f.dataFile, "error", err)
		f.values = make(map[string]string)
	}
	return nil
}

// Close persists the current values
func (f *FileStorage) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.saveToFile()
}

func (f *FileStorage) Get(key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.values[key]
	return v, ok, nil
}

func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[key] = value
	f.lastUpdateTime = time.Now()
	return f.saveToFile()
}

func (f *FileStorage) Delete(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, k := range keys {
		delete(f.values, k)
	}
	f.lastUpdateTime = time.Now()
	return f.saveToFile()
}

// GetStorageStats returns storage statistics
func (f *FileStorage) GetStorageStats() (*StorageStats, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return &StorageStats{
		Backend:        "file",
		Location:       f.dataFile,
		KeyCount:       len(f.values),
		InitializedAt:  f.initializedAt,
		LastUpdateTime: f.lastUpdateTime,
	}, nil
}

// loadFromFile loads values from the data file, if present
func (f *FileStorage) loadFromFile() error {
	data, err := os.ReadFile(f.dataFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to unmarshal state: %w", err)
	}
	f.values = values
	return nil
}

// saveToFile writes through a temp file so a crash never leaves half a token on disk
func (f *FileStorage) saveToFile() error {
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp := f.dataFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, f.dataFile); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

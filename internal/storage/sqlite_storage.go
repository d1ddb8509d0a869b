package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStorage implements LocalStorage on a single-table SQLite database
type SQLiteStorage struct {
	db            *sql.DB
	path          string
	initializedAt time.Time
}

// NewSQLiteStorage creates a SQLite-backed storage rooted at dataDir
func NewSQLiteStorage(dataDir string) *SQLiteStorage {
	return &SQLiteStorage{path: filepath.Join(dataDir, "client_state.db")}
}

// Initialize opens the database and applies pending migrations
func (s *SQLiteStorage) Initialize() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, sub)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	results, err := provider.Up(context.Background())
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		slog.Debug("Applied client state migration", "version", r.Source.Version, "duration", r.Duration)
	}

	s.db = db
	s.initializedAt = time.Now()
	return nil
}

func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM client_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStorage) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) Delete(keys ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	for _, k := range keys {
		if _, err := tx.Exec(`DELETE FROM client_state WHERE key = ?`, k); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to delete %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// GetStorageStats returns storage statistics
func (s *SQLiteStorage) GetStorageStats() (*StorageStats, error) {
	var (
		count   int
		updated sql.NullString
	)
	err := s.db.QueryRow(`SELECT COUNT(*), MAX(updated_at) FROM client_state`).Scan(&count, &updated)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}

	stats := &StorageStats{
		Backend:       "sqlite",
		Location:      s.path,
		KeyCount:      count,
		InitializedAt: s.initializedAt,
	}
	if updated.Valid {
		if t, err := time.Parse(time.RFC3339Nano, updated.String); err == nil {
			stats.LastUpdateTime = t
		}
	}
	return stats, nil
}

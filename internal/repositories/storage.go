package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytpm/internal/shared"
)

// StorageRepository persists string values under named keys in the storage table.
//
// It backs the session manager's credential slot.
type StorageRepository struct {
	db *sql.DB
}

// NewStorageRepository creates a new [StorageRepository] with the given database connection
func NewStorageRepository(db *sql.DB) *StorageRepository {
	return &StorageRepository{db: db}
}

// Get returns the value stored under key, or [shared.ErrSlotEmpty] when nothing is stored.
func (r *StorageRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", shared.ErrSlotEmpty, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query storage: %w", err)
	}
	return value, nil
}

// Set writes value under key, replacing any existing value.
func (r *StorageRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *StorageRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete from storage: %w", err)
	}
	return nil
}

// UpdatedAt reports when key was last written.
func (r *StorageRepository) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, `SELECT updated_at FROM storage WHERE key = ?`, key).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%w: %s", shared.ErrSlotEmpty, key)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query storage: %w", err)
	}
	return updatedAt, nil
}

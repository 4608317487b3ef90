package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/desertthunder/ytpm/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestStorageRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Get Empty", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		_, err := repo.Get(ctx, "credential")
		if !errors.Is(err, shared.ErrSlotEmpty) {
			t.Fatalf("expected ErrSlotEmpty, got %v", err)
		}
	})

	t.Run("Set and Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		if err := repo.Set(ctx, "credential", "token-1"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}

		got, err := repo.Get(ctx, "credential")
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if got != "token-1" {
			t.Errorf("expected token-1, got %s", got)
		}
	})

	t.Run("Set Overwrites", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		if err := repo.Set(ctx, "credential", "old"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		if err := repo.Set(ctx, "credential", "new"); err != nil {
			t.Fatalf("failed to overwrite: %v", err)
		}

		got, err := repo.Get(ctx, "credential")
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if got != "new" {
			t.Errorf("expected new, got %s", got)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM storage").Scan(&count); err != nil {
			t.Fatalf("failed to count rows: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 row, got %d", count)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		if err := repo.Set(ctx, "credential", "token"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		if err := repo.Delete(ctx, "credential"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}

		if _, err := repo.Get(ctx, "credential"); !errors.Is(err, shared.ErrSlotEmpty) {
			t.Errorf("expected ErrSlotEmpty after delete, got %v", err)
		}

		if err := repo.Delete(ctx, "credential"); err != nil {
			t.Errorf("deleting an absent key should succeed, got %v", err)
		}
	})

	t.Run("UpdatedAt", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		if _, err := repo.UpdatedAt(ctx, "credential"); !errors.Is(err, shared.ErrSlotEmpty) {
			t.Errorf("expected ErrSlotEmpty, got %v", err)
		}

		if err := repo.Set(ctx, "credential", "token"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		ts, err := repo.UpdatedAt(ctx, "credential")
		if err != nil {
			t.Fatalf("failed to read updated_at: %v", err)
		}
		if ts.IsZero() {
			t.Error("expected non-zero updated_at")
		}
	})

	t.Run("Keys Are Independent", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		if err := repo.Set(ctx, "a", "1"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		if _, err := repo.Get(ctx, "b"); !errors.Is(err, shared.ErrSlotEmpty) {
			t.Errorf("expected ErrSlotEmpty for other key, got %v", err)
		}
	})
}

func TestStorageRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("disk I/O error")

	t.Run("Get", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer db.Close()

		mock.ExpectQuery("SELECT value FROM storage").WithArgs("credential").WillReturnError(dbErr)

		_, err = NewStorageRepository(db).Get(ctx, "credential")
		if !errors.Is(err, dbErr) {
			t.Errorf("expected wrapped driver error, got %v", err)
		}
		if errors.Is(err, shared.ErrSlotEmpty) {
			t.Error("driver failure should not be reported as an empty slot")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("Set", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer db.Close()

		mock.ExpectExec("INSERT INTO storage").
			WithArgs("credential", "token", sqlmock.AnyArg()).
			WillReturnError(dbErr)

		if err := NewStorageRepository(db).Set(ctx, "credential", "token"); !errors.Is(err, dbErr) {
			t.Errorf("expected wrapped driver error, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer db.Close()

		mock.ExpectExec("DELETE FROM storage").WithArgs("credential").WillReturnError(dbErr)

		if err := NewStorageRepository(db).Delete(ctx, "credential"); !errors.Is(err, dbErr) {
			t.Errorf("expected wrapped driver error, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("Get Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer db.Close()

		mock.ExpectQuery("SELECT value FROM storage").
			WithArgs("credential").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("tok"))

		got, err := NewStorageRepository(db).Get(ctx, "credential")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "tok" {
			t.Errorf("expected tok, got %s", got)
		}
	})
}

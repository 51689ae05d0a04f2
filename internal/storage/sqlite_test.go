package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func createTestCompany(t *testing.T, store *SQLiteStorage, name string) *model.Company {
	t.Helper()
	company := &model.Company{Name: name, CNPJ: "12.345.678/0001-90", Responsible: "Maria"}
	require.NoError(t, store.CreateCompany(context.Background(), company))
	return company
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestNewSQLiteStorage_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "vledger.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
}

func TestTransaction_SaveMovements(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	company := createTestCompany(t, store, "ACME")

	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	movements := []model.Movement{{
		CompanyID:    company.ID,
		BatchID:      "batch-1",
		Description:  "PAGAMENTO UNIMED",
		MovementDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		ProcessedAt:  now,
	}}

	t.Run("rollback discards", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.SaveMovements(ctx, movements))
		require.NoError(t, tx.Rollback())

		saved, err := store.ListMovements(ctx, company.ID, service.MovementFilter{})
		require.NoError(t, err)
		assert.Empty(t, saved)
	})

	t.Run("commit persists", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.SaveMovements(ctx, movements))
		require.NoError(t, tx.Commit())

		saved, err := store.ListMovements(ctx, company.ID, service.MovementFilter{})
		require.NoError(t, err)
		assert.Len(t, saved, 1)
	})

	t.Run("invalid movements rejected", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()

		err = tx.SaveMovements(ctx, []model.Movement{{CompanyID: company.ID}})
		assert.ErrorIs(t, err, ErrInvalidMovement)
	})
}

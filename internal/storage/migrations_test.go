package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	for _, table := range []string{"companies", "keyword_references", "movements"} {
		var name string
		err := store.db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))
}

func TestMigrate_VersionsAreSequential(t *testing.T) {
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.Description)
	}
	assert.Equal(t, ExpectedSchemaVersion, migrations[len(migrations)-1].Version)
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.db.ExecContext(ctx, "PRAGMA user_version = 99")
	require.NoError(t, err)

	err = store.Migrate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Create companies table",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS companies (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					cnpj TEXT NOT NULL DEFAULT '',
					responsible TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_companies_name ON companies(name)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Create references table",
		Up: func(tx *sql.Tx) error {
			// "references" is a keyword, so the table is called keyword_references.
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS keyword_references (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					company_id INTEGER NOT NULL,
					name TEXT NOT NULL,
					debit_account TEXT NOT NULL DEFAULT '',
					credit_account TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(company_id, name),
					FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE CASCADE
				)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Create movements table",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS movements (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					company_id INTEGER NOT NULL,
					batch_id TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					debit_account TEXT NOT NULL DEFAULT '',
					credit_account TEXT NOT NULL DEFAULT '',
					matched_reference TEXT NOT NULL DEFAULT '',
					amount REAL NOT NULL DEFAULT 0,
					movement_date DATE NOT NULL,
					processed_at DATETIME NOT NULL,
					FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE CASCADE
				)`,
			)
		},
	},
	{
		Version:     4,
		Description: "Add movement indexes",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE INDEX IF NOT EXISTS idx_movements_company_date ON movements(company_id, movement_date)`,
				`CREATE INDEX IF NOT EXISTS idx_movements_batch ON movements(batch_id)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// SchemaVersion returns the version recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies every migration newer than the recorded schema version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if currentVersion > ExpectedSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", currentVersion, ExpectedSchemaVersion)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/vledger/internal/export"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/storage"
)

// TestDB is a migrated in-memory database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database. Migrations are applied
// and the database is closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	company := db.MustCreateCompany("ACME")
//	db.MustAddReferences(company.ID, testutil.SampleReferences()...)
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// MustCreateCompany creates a company or fails the test.
func (db *TestDB) MustCreateCompany(name string) *model.Company {
	db.t.Helper()

	company := &model.Company{Name: name}
	if err := db.Storage.CreateCompany(context.Background(), company); err != nil {
		db.t.Fatalf("failed to create company %q: %v", name, err)
	}
	return company
}

// MustAddReferences registers refs, in order, for a company or fails the test.
func (db *TestDB) MustAddReferences(companyID int, refs ...model.Reference) []model.Reference {
	db.t.Helper()

	created := make([]model.Reference, 0, len(refs))
	for _, ref := range refs {
		ref.CompanyID = companyID
		if err := db.Storage.CreateReference(context.Background(), &ref); err != nil {
			db.t.Fatalf("failed to add reference %q: %v", ref.Name, err)
		}
		created = append(created, ref)
	}
	return created
}

// SampleReferences returns the reference template rows, in template order.
func SampleReferences() []model.Reference {
	return append([]model.Reference(nil), export.TemplateReferences...)
}

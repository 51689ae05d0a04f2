// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/vledger/internal/model"
)

// MovementFilter narrows a movement listing.
type MovementFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	BatchID   string
	Limit     int
}

// ImportStats reports the outcome of a bulk reference import.
type ImportStats struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// CompanyStore persists companies.
type CompanyStore interface {
	CreateCompany(ctx context.Context, company *model.Company) error
	GetCompany(ctx context.Context, id int) (*model.Company, error)
	GetCompanyByName(ctx context.Context, name string) (*model.Company, error)
	ListCompanies(ctx context.Context) ([]model.Company, error)
	UpdateCompany(ctx context.Context, company *model.Company) error
	DeleteCompany(ctx context.Context, id int) error
}

// ReferenceStore persists the keyword references of each company.
type ReferenceStore interface {
	CreateReference(ctx context.Context, ref *model.Reference) error
	GetReference(ctx context.Context, id int) (*model.Reference, error)
	ListReferences(ctx context.Context, companyID int, order model.ReferenceOrder) ([]model.Reference, error)
	UpdateReference(ctx context.Context, ref *model.Reference) error
	DeleteReference(ctx context.Context, id int) error
	ImportReferences(ctx context.Context, companyID int, refs []model.Reference) (ImportStats, error)
}

// MovementStore persists classified rows.
type MovementStore interface {
	SaveMovements(ctx context.Context, movements []model.Movement) error
	ListMovements(ctx context.Context, companyID int, filter MovementFilter) ([]model.Movement, error)
	DeleteMovementBatch(ctx context.Context, companyID int, batchID string) (int64, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	CompanyStore
	ReferenceStore
	MovementStore

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction is the subset of storage operations that run inside one
// database transaction.
type Transaction interface {
	SaveMovements(ctx context.Context, movements []model.Movement) error
	Commit() error
	Rollback() error
}

// ResultWriter publishes a classification result somewhere outside the
// local database, such as a Google spreadsheet.
type ResultWriter interface {
	Write(ctx context.Context, result *model.ClassificationResult) error
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/service"
)

const referenceColumns = `id, company_id, name, debit_account, credit_account, created_at, updated_at`

// CreateReference adds a reference to a company. A name already registered
// for the company is rejected with common.ErrDuplicateEntry.
func (s *SQLiteStorage) CreateReference(ctx context.Context, ref *model.Reference) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReference(ref); err != nil {
		return err
	}

	ref.Name = ref.Keyword()
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO keyword_references (company_id, name, debit_account, credit_account, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ref.CompanyID, ref.Name, strings.TrimSpace(ref.DebitAccount), strings.TrimSpace(ref.CreditAccount), now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("reference %q: %w", ref.Name, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create reference: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get reference ID: %w", err)
	}

	ref.ID = int(id)
	ref.CreatedAt = now
	ref.UpdatedAt = now
	return nil
}

// GetReference retrieves a reference by ID.
func (s *SQLiteStorage) GetReference(ctx context.Context, id int) (*model.Reference, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	ref, err := scanReference(s.db.QueryRowContext(ctx,
		`SELECT `+referenceColumns+` FROM keyword_references WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reference %d: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reference: %w", err)
	}
	return ref, nil
}

// ListReferences returns a company's references in the requested scan order.
// Insertion order is the order references were registered in.
func (s *SQLiteStorage) ListReferences(ctx context.Context, companyID int, order model.ReferenceOrder) ([]model.Reference, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	orderBy := "id"
	if order == model.OrderAlphabetical {
		orderBy = "name COLLATE NOCASE, id"
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+referenceColumns+` FROM keyword_references WHERE company_id = ? ORDER BY `+orderBy, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var refs []model.Reference
	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reference: %w", err)
		}
		refs = append(refs, *ref)
	}

	return refs, rows.Err()
}

// UpdateReference rewrites the keyword and accounts of a reference.
func (s *SQLiteStorage) UpdateReference(ctx context.Context, ref *model.Reference) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReference(ref); err != nil {
		return err
	}

	ref.Name = ref.Keyword()
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE keyword_references
		SET name = ?, debit_account = ?, credit_account = ?, updated_at = ?
		WHERE id = ? AND company_id = ?`,
		ref.Name, strings.TrimSpace(ref.DebitAccount), strings.TrimSpace(ref.CreditAccount), now, ref.ID, ref.CompanyID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("reference %q: %w", ref.Name, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to update reference: %w", err)
	}

	if err := requireAffected(result, "reference", ref.ID); err != nil {
		return err
	}
	ref.UpdatedAt = now
	return nil
}

// DeleteReference removes a reference.
func (s *SQLiteStorage) DeleteReference(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM keyword_references WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reference: %w", err)
	}

	return requireAffected(result, "reference", id)
}

// ImportReferences inserts refs for a company in one transaction. Names that
// are blank or already registered are skipped, never merged.
func (s *SQLiteStorage) ImportReferences(ctx context.Context, companyID int, refs []model.Reference) (service.ImportStats, error) {
	var stats service.ImportStats

	if err := validateContext(ctx); err != nil {
		return stats, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO keyword_references (company_id, name, debit_account, credit_account, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return stats, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, ref := range refs {
		name := ref.Keyword()
		if name == "" {
			stats.Skipped++
			continue
		}

		result, err := stmt.ExecContext(ctx, companyID, name,
			strings.TrimSpace(ref.DebitAccount), strings.TrimSpace(ref.CreditAccount), now, now)
		if err != nil {
			return service.ImportStats{}, fmt.Errorf("failed to import reference %q: %w", name, err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return service.ImportStats{}, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			stats.Skipped++
		} else {
			stats.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return service.ImportStats{}, fmt.Errorf("failed to commit import: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReference(row rowScanner) (*model.Reference, error) {
	var ref model.Reference
	if err := row.Scan(&ref.ID, &ref.CompanyID, &ref.Name, &ref.DebitAccount, &ref.CreditAccount,
		&ref.CreatedAt, &ref.UpdatedAt); err != nil {
		return nil, err
	}
	return &ref, nil
}

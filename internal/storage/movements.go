package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/service"
)

// SaveMovements stores movements in a single transaction.
func (s *SQLiteStorage) SaveMovements(ctx context.Context, movements []model.Movement) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMovements(movements); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveMovementsTx(ctx, tx, movements); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit movements: %w", err)
	}
	return nil
}

func saveMovementsTx(ctx context.Context, tx *sql.Tx, movements []model.Movement) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO movements (
			company_id, batch_id, description, debit_account, credit_account,
			matched_reference, amount, movement_date, processed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, m := range movements {
		_, err := stmt.ExecContext(ctx,
			m.CompanyID, m.BatchID, m.Description, m.DebitAccount, m.CreditAccount,
			m.MatchedReference, m.Amount, m.MovementDate.Format(model.DateLayout), m.ProcessedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to save movement %d: %w", i, err)
		}
	}

	return nil
}

// ListMovements returns a company's movements ordered by date, narrowed by filter.
func (s *SQLiteStorage) ListMovements(ctx context.Context, companyID int, filter service.MovementFilter) ([]model.Movement, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, *filter.EndDate, *filter.StartDate)
	}

	var query strings.Builder
	query.WriteString(`
		SELECT id, company_id, batch_id, description, debit_account, credit_account,
			matched_reference, amount, movement_date, processed_at
		FROM movements
		WHERE company_id = ?`)
	args := []any{companyID}

	if filter.StartDate != nil {
		query.WriteString(` AND movement_date >= ?`)
		args = append(args, filter.StartDate.Format(model.DateLayout))
	}
	if filter.EndDate != nil {
		query.WriteString(` AND movement_date <= ?`)
		args = append(args, filter.EndDate.Format(model.DateLayout))
	}
	if filter.BatchID != "" {
		query.WriteString(` AND batch_id = ?`)
		args = append(args, filter.BatchID)
	}
	query.WriteString(` ORDER BY movement_date, id`)
	if filter.Limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var movements []model.Movement
	for rows.Next() {
		var m model.Movement
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.BatchID, &m.Description, &m.DebitAccount,
			&m.CreditAccount, &m.MatchedReference, &m.Amount, &m.MovementDate, &m.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, m)
	}

	return movements, rows.Err()
}

// DeleteMovementBatch removes every movement saved by one classification run.
func (s *SQLiteStorage) DeleteMovementBatch(ctx context.Context, companyID int, batchID string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(batchID, "batchID"); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM movements WHERE company_id = ? AND batch_id = ?`, companyID, batchID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete movement batch: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

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
)

// CreateCompany inserts a company and fills in its ID.
func (s *SQLiteStorage) CreateCompany(ctx context.Context, company *model.Company) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCompany(company); err != nil {
		return err
	}

	company.Name = strings.TrimSpace(company.Name)
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO companies (name, cnpj, responsible, created_at) VALUES (?, ?, ?, ?)`,
		company.Name, strings.TrimSpace(company.CNPJ), strings.TrimSpace(company.Responsible), now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("company %q: %w", company.Name, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create company: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get company ID: %w", err)
	}

	company.ID = int(id)
	company.CreatedAt = now
	return nil
}

// GetCompany retrieves a company by ID.
func (s *SQLiteStorage) GetCompany(ctx context.Context, id int) (*model.Company, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getCompany(ctx, `WHERE id = ?`, id)
}

// GetCompanyByName retrieves a company by its exact name.
func (s *SQLiteStorage) GetCompanyByName(ctx context.Context, name string) (*model.Company, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.getCompany(ctx, `WHERE name = ?`, strings.TrimSpace(name))
}

func (s *SQLiteStorage) getCompany(ctx context.Context, where string, arg any) (*model.Company, error) {
	var company model.Company
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, cnpj, responsible, created_at FROM companies `+where, arg).Scan(
		&company.ID, &company.Name, &company.CNPJ, &company.Responsible, &company.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company %v: %w", arg, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &company, nil
}

// ListCompanies returns every company ordered by name.
func (s *SQLiteStorage) ListCompanies(ctx context.Context) ([]model.Company, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, cnpj, responsible, created_at FROM companies ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var companies []model.Company
	for rows.Next() {
		var company model.Company
		if err := rows.Scan(&company.ID, &company.Name, &company.CNPJ, &company.Responsible, &company.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, company)
	}

	return companies, rows.Err()
}

// UpdateCompany rewrites the name, CNPJ and responsible of a company.
func (s *SQLiteStorage) UpdateCompany(ctx context.Context, company *model.Company) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCompany(company); err != nil {
		return err
	}

	company.Name = strings.TrimSpace(company.Name)
	result, err := s.db.ExecContext(ctx,
		`UPDATE companies SET name = ?, cnpj = ?, responsible = ? WHERE id = ?`,
		company.Name, strings.TrimSpace(company.CNPJ), strings.TrimSpace(company.Responsible), company.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("company %q: %w", company.Name, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to update company: %w", err)
	}

	return requireAffected(result, "company", company.ID)
}

// DeleteCompany removes a company together with its references and movements.
func (s *SQLiteStorage) DeleteCompany(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	return requireAffected(result, "company", id)
}

func requireAffected(result sql.Result, entity string, id int) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, common.ErrNotFound)
	}
	return nil
}

// Package storage provides the SQLite persistence layer for companies,
// references and classified movements.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/vledger/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrEmptySlice       = errors.New("slice cannot be empty")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidCompany   = errors.New("invalid company")
	ErrInvalidReference = errors.New("invalid reference")
	ErrInvalidMovement  = errors.New("invalid movement")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateCompany(company *model.Company) error {
	if company == nil {
		return fmt.Errorf("%w: company", ErrNilParameter)
	}
	if strings.TrimSpace(company.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCompany)
	}
	return nil
}

func validateReference(ref *model.Reference) error {
	if ref == nil {
		return fmt.Errorf("%w: reference", ErrNilParameter)
	}
	if ref.CompanyID <= 0 {
		return fmt.Errorf("%w: missing company", ErrInvalidReference)
	}
	if ref.Keyword() == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidReference)
	}
	return nil
}

// validateMovements validates a slice of movements.
func validateMovements(movements []model.Movement) error {
	if movements == nil {
		return fmt.Errorf("%w: movements", ErrNilParameter)
	}
	if len(movements) == 0 {
		return fmt.Errorf("%w: movements", ErrEmptySlice)
	}

	for i, m := range movements {
		if m.CompanyID <= 0 {
			return fmt.Errorf("movement at index %d: %w: missing company", i, ErrInvalidMovement)
		}
		if m.BatchID == "" {
			return fmt.Errorf("movement at index %d: %w: missing batch", i, ErrInvalidMovement)
		}
		if m.MovementDate.IsZero() || m.ProcessedAt.IsZero() {
			return fmt.Errorf("movement at index %d: %w: missing date", i, ErrInvalidMovement)
		}
	}
	return nil
}

// Package engine assigns debit and credit accounts to statement rows by
// matching row descriptions against a company's references.
package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Veraticus/vledger/internal/columns"
	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/normalize"
)

// Plan is a prepared classification: resolved columns plus a compiled
// matcher. A Plan holds no mutable state, so chunks of the same statement may
// be classified concurrently and merged with model.MergeResults.
type Plan struct {
	matcher       *Matcher
	sourceColumns []string
	warnings      []string
	roles         model.ColumnRoles
	opts          model.Options
}

// Classify runs the whole statement through the matching engine. It fails
// only when refs is empty or no description column can be identified.
func Classify(stmt model.Statement, refs []model.Reference, opts model.Options) (*model.ClassificationResult, error) {
	plan, err := Prepare(stmt, refs, opts)
	if err != nil {
		return nil, err
	}
	return plan.ClassifyRows(stmt.Rows, 0), nil
}

// Prepare resolves the statement columns and compiles the reference set.
func Prepare(stmt model.Statement, refs []model.Reference, opts model.Options) (*Plan, error) {
	if len(refs) == 0 {
		return nil, common.NewUserError(
			"No references registered for this company. Add references before classifying a statement",
			common.ErrNoReferences)
	}

	mode, err := model.ParseMatchMode(string(opts.Mode))
	if err != nil {
		return nil, common.NewUserError("Choose a match mode: contains, whole-word or regex",
			fmt.Errorf("%w: %w", common.ErrInvalidOptions, err))
	}
	numberFormat, err := model.ParseNumberFormat(string(opts.NumberFormat))
	if err != nil {
		return nil, common.NewUserError("Choose a number format: auto or us",
			fmt.Errorf("%w: %w", common.ErrInvalidOptions, err))
	}
	opts.Mode, opts.NumberFormat = mode, numberFormat

	resolution, err := columns.Resolve(stmt.Columns, stmt.Rows)
	if err != nil {
		return nil, err
	}

	matcher, err := NewMatcher(refs, opts)
	if err != nil {
		return nil, err
	}

	warnings := make([]string, 0, len(resolution.Warnings)+len(matcher.Warnings()))
	warnings = append(warnings, resolution.Warnings...)
	warnings = append(warnings, matcher.Warnings()...)

	slog.Debug("Prepared classification",
		"description_column", resolution.Description,
		"date_column", resolution.Date,
		"amount_column", resolution.Amount,
		"references", len(refs),
		"mode", opts.Mode,
		"case_sensitive", opts.CaseSensitive)

	return &Plan{
		matcher:       matcher,
		sourceColumns: stmt.Columns,
		warnings:      warnings,
		roles:         resolution.ColumnRoles,
		opts:          opts,
	}, nil
}

// Columns returns the resolved column roles.
func (p *Plan) Columns() model.ColumnRoles {
	return p.roles
}

// Warnings returns the non-fatal problems found while preparing.
func (p *Plan) Warnings() []string {
	return p.warnings
}

// ClassifyRows classifies rows, numbering them from offset so that chunk
// results keep their position in the full statement.
func (p *Plan) ClassifyRows(rows []model.RawRow, offset int) *model.ClassificationResult {
	classified := make([]model.TransactionRow, len(rows))
	for i, raw := range rows {
		classified[i] = p.classifyRow(raw, offset+i)
	}
	return model.NewClassificationResult(p.sourceColumns, p.roles, classified, p.warnings)
}

func (p *Plan) classifyRow(raw model.RawRow, index int) model.TransactionRow {
	row := model.TransactionRow{
		Index:       index,
		Raw:         raw,
		Description: descriptionText(raw[p.roles.Description]),
	}

	if p.roles.Amount != "" {
		row.AmountRaw = raw[p.roles.Amount]
		row.Amount = normalize.ParseNumberFormat(row.AmountRaw, p.opts.NumberFormat)
	}

	if p.roles.Date != "" {
		row.DateRaw = raw[p.roles.Date]
		if date, ok := normalize.ParseDate(row.DateRaw); ok {
			row.Date = &date
		}
	}

	if ref, ok := p.matcher.Match(row.Description); ok {
		row.DebitAccount = ref.DebitAccount
		row.CreditAccount = ref.CreditAccount
		row.MatchedReference = ref.Name
	}

	return row
}

// descriptionText renders a description cell; missing values become "".
func descriptionText(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return d
	case float64:
		if math.IsNaN(d) {
			return ""
		}
	}
	return fmt.Sprint(v)
}

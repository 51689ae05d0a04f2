package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ClassificationResult is the outcome of classifying one statement against one
// reference set. Rows is the source of truth; Unmatched and MatchCounts are
// derived from it by NewClassificationResult.
type ClassificationResult struct {
	MatchCounts   map[string]int   `json:"match_counts"`
	Columns       ColumnRoles      `json:"columns"`
	SourceColumns []string         `json:"source_columns"`
	Rows          []TransactionRow `json:"rows"`
	Unmatched     []TransactionRow `json:"unmatched"`
	Warnings      []string         `json:"warnings,omitempty"`
}

// NewClassificationResult builds a result from classified rows, deriving the
// unmatched subset and per-reference hit counts.
func NewClassificationResult(sourceColumns []string, roles ColumnRoles, rows []TransactionRow, warnings []string) *ClassificationResult {
	result := &ClassificationResult{
		MatchCounts:   make(map[string]int),
		Columns:       roles,
		SourceColumns: sourceColumns,
		Rows:          rows,
		Unmatched:     make([]TransactionRow, 0),
		Warnings:      warnings,
	}

	for _, row := range rows {
		if row.IsMatched() {
			result.MatchCounts[row.MatchedReference]++
			continue
		}
		result.Unmatched = append(result.Unmatched, row)
	}

	return result
}

// MergeResults concatenates chunk results in the order given and re-derives
// the views. Column metadata comes from the first part; warnings are
// de-duplicated keeping first occurrence.
func MergeResults(parts ...*ClassificationResult) *ClassificationResult {
	if len(parts) == 0 {
		return NewClassificationResult(nil, ColumnRoles{}, nil, nil)
	}

	var rows []TransactionRow
	var warnings []string
	seen := make(map[string]bool)

	for _, part := range parts {
		if part == nil {
			continue
		}
		rows = append(rows, part.Rows...)
		for _, w := range part.Warnings {
			if !seen[w] {
				seen[w] = true
				warnings = append(warnings, w)
			}
		}
	}

	first := parts[0]
	return NewClassificationResult(first.SourceColumns, first.Columns, rows, warnings)
}

// Matched returns the matched rows in input order.
func (r *ClassificationResult) Matched() []TransactionRow {
	matched := make([]TransactionRow, 0, len(r.Rows)-len(r.Unmatched))
	for _, row := range r.Rows {
		if row.IsMatched() {
			matched = append(matched, row)
		}
	}
	return matched
}

// ReferenceSummary aggregates the rows one reference matched.
type ReferenceSummary struct {
	Total decimal.Decimal `json:"total"`
	Name  string          `json:"name"`
	Count int             `json:"count"`
}

// Summary is a display-oriented digest of a classification result.
type Summary struct {
	MatchedAmount   decimal.Decimal    `json:"matched_amount"`
	UnmatchedAmount decimal.Decimal    `json:"unmatched_amount"`
	References      []ReferenceSummary `json:"references"`
	Rows            int                `json:"rows"`
	Matched         int                `json:"matched"`
	Unmatched       int                `json:"unmatched"`
}

// Summary returns per-reference counts and totals ordered by count (highest
// first) and then by name.
func (r *ClassificationResult) Summary() Summary {
	summary := Summary{
		MatchedAmount:   decimal.Zero,
		UnmatchedAmount: decimal.Zero,
		Rows:            len(r.Rows),
		Unmatched:       len(r.Unmatched),
	}
	summary.Matched = summary.Rows - summary.Unmatched

	totals := make(map[string]decimal.Decimal, len(r.MatchCounts))
	for _, row := range r.Rows {
		amount := decimal.NewFromFloat(row.Amount)
		if !row.IsMatched() {
			summary.UnmatchedAmount = summary.UnmatchedAmount.Add(amount)
			continue
		}
		summary.MatchedAmount = summary.MatchedAmount.Add(amount)
		totals[row.MatchedReference] = totals[row.MatchedReference].Add(amount)
	}

	summary.References = make([]ReferenceSummary, 0, len(r.MatchCounts))
	for name, count := range r.MatchCounts {
		summary.References = append(summary.References, ReferenceSummary{
			Name:  name,
			Count: count,
			Total: totals[name],
		})
	}

	sort.Slice(summary.References, func(i, j int) bool {
		a, b := summary.References[i], summary.References[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})

	return summary
}

// Package columns infers which statement columns hold the description, date
// and amount of each transaction.
package columns

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/normalize"
)

// Candidate substrings per role, highest priority first.
var (
	DescriptionCandidates = []string{"descr", "description", "hist", "histórico", "historico"}
	DateCandidates        = []string{"data", "date", "dt"}
	AmountCandidates      = []string{"valor", "value", "amount", "amt", "vlr"}
)

// minAbbreviation is the shortest column name accepted as an abbreviation of
// a candidate ("Desc" for "descr", "Val" for "valor").
const minAbbreviation = 3

// Resolution is the outcome of resolving a statement schema.
type Resolution struct {
	Warnings []string
	model.ColumnRoles
}

// Resolve maps columns to the description, date and amount roles. Only a
// missing description on a schema with fewer than two columns is fatal; every
// other gap is reported through Warnings. rows are read only to probe for a
// date column when no column is named like one.
func Resolve(columns []string, rows []model.RawRow) (Resolution, error) {
	var res Resolution

	if desc, ok := FindByName(columns, DescriptionCandidates); ok {
		res.Description = desc
	} else {
		if len(columns) < 2 {
			return res, common.NewUserError(
				"Upload a file with a description column (for example \"Descrição\" or \"Histórico\")",
				fmt.Errorf("%w: columns %q", common.ErrColumnResolution, columns))
		}
		res.Description = columns[1]
		res.DescriptionFallback = true
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("no description column found, using %q", res.Description))
	}

	if date, ok := FindByName(columns, DateCandidates); ok {
		res.Date = date
	} else if date, ok := probeDateColumn(columns, rows); ok {
		res.Date = date
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("no date column found by name, using %q", date))
	} else {
		res.Warnings = append(res.Warnings, "no date column found, dates are unknown")
	}

	if amount, ok := FindByName(columns, AmountCandidates); ok {
		res.Amount = amount
	} else {
		res.Warnings = append(res.Warnings, "no amount column found, amounts default to 0")
	}

	return res, nil
}

// FindByName returns the column matching the highest-priority candidate. Among
// columns matching the same candidate, the left-most wins.
func FindByName(columns []string, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		for _, col := range columns {
			if matchesCandidate(col, candidate) {
				return col, true
			}
		}
	}
	return "", false
}

func matchesCandidate(column, candidate string) bool {
	name := strings.ToLower(strings.TrimSpace(column))
	if name == "" {
		return false
	}
	if strings.Contains(name, candidate) {
		return true
	}
	return utf8.RuneCountInString(name) >= minAbbreviation &&
		isLetters(name) &&
		strings.HasPrefix(candidate, name)
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// probeDateColumn returns the first column, left to right, holding at least
// one value that parses as a date.
func probeDateColumn(columns []string, rows []model.RawRow) (string, bool) {
	for _, col := range columns {
		for _, row := range rows {
			if _, ok := normalize.ParseDate(row[col]); ok {
				return col, true
			}
		}
	}
	return "", false
}

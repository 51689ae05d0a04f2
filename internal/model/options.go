package model

import (
	"fmt"
	"strings"
)

// MatchMode selects the predicate used to compare a reference keyword with a
// row description.
type MatchMode string

// Match mode constants.
const (
	MatchContains  MatchMode = "contains"
	MatchWholeWord MatchMode = "whole-word"
	MatchRegex     MatchMode = "regex"
)

// ParseMatchMode parses a mode name. Empty input selects MatchContains.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchContains:
		return MatchContains, nil
	case MatchWholeWord, "wholeword", "word":
		return MatchWholeWord, nil
	case MatchRegex, "regexp":
		return MatchRegex, nil
	}
	return "", fmt.Errorf("unknown match mode %q (want contains, whole-word or regex)", s)
}

// NumberFormat selects how separators in amount text are interpreted.
type NumberFormat string

// Number format constants.
const (
	// NumberAuto reads amounts the Brazilian way: when both separators are
	// present "." is dropped and "," becomes the decimal point, so "1.234,56"
	// is 1234.56 but "1,234.56" is 1.23456. Reading "1,234.56" as 1234.56
	// would break that rule, so US-style amounts are left to NumberUS; do not
	// special-case them here.
	NumberAuto NumberFormat = "auto"
	// NumberUS treats "," as a thousands separator and "." as the decimal point.
	NumberUS NumberFormat = "us"
)

// ParseNumberFormat parses a number format name. Empty input selects NumberAuto.
func ParseNumberFormat(s string) (NumberFormat, error) {
	switch NumberFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", NumberAuto, "br":
		return NumberAuto, nil
	case NumberUS:
		return NumberUS, nil
	}
	return "", fmt.Errorf("unknown number format %q (want auto or us)", s)
}

// Options configures one classification run.
type Options struct {
	Mode          MatchMode    `json:"mode"`
	NumberFormat  NumberFormat `json:"number_format"`
	CaseSensitive bool         `json:"case_sensitive"`
}

// DefaultOptions returns case-insensitive substring matching.
func DefaultOptions() Options {
	return Options{
		Mode:         MatchContains,
		NumberFormat: NumberAuto,
	}
}

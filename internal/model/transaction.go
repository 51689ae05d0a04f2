package model

import "time"

// DateLayout is the text form of a normalized movement date.
const DateLayout = "2006-01-02"

// RawRow is one uploaded statement row keyed by its original column name.
// Values are whatever the file reader produced: strings, numbers, times or nil.
type RawRow map[string]any

// Statement is an uploaded table: the column names in file order and the rows.
type Statement struct {
	Source  string
	Columns []string
	Rows    []RawRow
}

// ColumnRoles names the statement columns holding each semantic role. An empty
// Date or Amount means the role could not be resolved.
type ColumnRoles struct {
	Description         string `json:"description"`
	Date                string `json:"date"`
	Amount              string `json:"amount"`
	DescriptionFallback bool   `json:"description_fallback"`
}

// TransactionRow is a statement row after normalization and matching.
type TransactionRow struct {
	Date             *time.Time `json:"date,omitempty"`
	AmountRaw        any        `json:"amount_raw"`
	DateRaw          any        `json:"date_raw"`
	Raw              RawRow     `json:"raw"`
	Description      string     `json:"description"`
	DebitAccount     string     `json:"debit_account"`
	CreditAccount    string     `json:"credit_account"`
	MatchedReference string     `json:"matched_reference"`
	Index            int        `json:"index"`
	Amount           float64    `json:"amount"`
}

// IsMatched reports whether a reference was assigned to the row.
func (r TransactionRow) IsMatched() bool {
	return r.MatchedReference != ""
}

// DateString renders the normalized date as YYYY-MM-DD, or "" when unknown.
func (r TransactionRow) DateString() string {
	if r.Date == nil {
		return ""
	}
	return r.Date.Format(DateLayout)
}

// Package model defines the core data structures for the vledger application.
package model

import (
	"strings"
	"time"
)

// Reference is a keyword rule that assigns a debit/credit account pair to every
// statement row whose description matches Name.
type Reference struct {
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `json:"name"`
	DebitAccount  string    `json:"debit_account"`
	CreditAccount string    `json:"credit_account"`
	ID            int       `json:"id"`
	CompanyID     int       `json:"company_id"`
}

// Keyword returns the trimmed reference name. An empty keyword never matches.
func (r Reference) Keyword() string {
	return strings.TrimSpace(r.Name)
}

// ReferenceOrder controls the order references are scanned in, which decides
// which reference wins when more than one matches a row.
type ReferenceOrder string

// Reference order constants.
const (
	OrderInsertion    ReferenceOrder = "insertion"
	OrderAlphabetical ReferenceOrder = "alphabetical"
)

// ParseReferenceOrder parses a configured order, defaulting to insertion order.
func ParseReferenceOrder(s string) (ReferenceOrder, bool) {
	switch ReferenceOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderInsertion:
		return OrderInsertion, true
	case OrderAlphabetical:
		return OrderAlphabetical, true
	}
	return OrderInsertion, false
}

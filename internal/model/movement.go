package model

import "time"

// Movement is the persisted form of a classified statement row. One movement
// is stored per row, matched or not.
type Movement struct {
	MovementDate     time.Time `json:"movement_date"`
	ProcessedAt      time.Time `json:"processed_at"`
	BatchID          string    `json:"batch_id"`
	Description      string    `json:"description"`
	DebitAccount     string    `json:"debit_account"`
	CreditAccount    string    `json:"credit_account"`
	MatchedReference string    `json:"matched_reference"`
	ID               int64     `json:"id"`
	CompanyID        int       `json:"company_id"`
	Amount           float64   `json:"amount"`
}

// NewMovement converts a classified row. An unknown row date falls back to the
// processing date.
func NewMovement(companyID int, batchID string, row TransactionRow, processedAt time.Time) Movement {
	movementDate := processedAt
	if row.Date != nil {
		movementDate = *row.Date
	}

	return Movement{
		CompanyID:        companyID,
		BatchID:          batchID,
		Description:      row.Description,
		DebitAccount:     row.DebitAccount,
		CreditAccount:    row.CreditAccount,
		MatchedReference: row.MatchedReference,
		Amount:           row.Amount,
		MovementDate:     truncateToDay(movementDate),
		ProcessedAt:      processedAt,
	}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

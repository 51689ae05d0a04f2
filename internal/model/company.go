package model

import "time"

// Company owns a set of references and the movements saved for it.
type Company struct {
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	CNPJ        string    `json:"cnpj"`
	Responsible string    `json:"responsible"`
	ID          int       `json:"id"`
}

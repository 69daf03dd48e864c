package models

import (
	"time"

	"github.com/google/uuid"
)

// Donation is a donor payment intent. Persisted before redirecting to the
// payment gateway; marked paid by the gateway's signed callback.
type Donation struct {
	ID              uuid.UUID `json:"id"`
	DonorName       string    `json:"donor_name"`
	Phone           string    `json:"phone"`
	AmountCents     int64     `json:"amount_cents"`
	Message         string    `json:"message,omitempty"`
	IsPaid          bool      `json:"is_paid"`
	TransactionCode string    `json:"transaction_code,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

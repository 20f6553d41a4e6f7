package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// Invoice is the billing record issued when a request leaves ready_to_bill.
// Reference is globally unique across all invoices.
type Invoice struct {
	ID        uuid.UUID `json:"id"`
	RequestID uuid.UUID `json:"request_id"`
	Reference string    `json:"reference"`
	Amount    float64   `json:"amount"`
	Deposit   float64   `json:"deposit"`
	IssuedAt  time.Time `json:"issued_at"`
	DueAt     time.Time `json:"due_at"`
	PaidAt    null.Time `json:"paid_at"`
	CreatedAt time.Time `json:"created_at"`
}

package entities

import (
	"time"

	"github.com/google/uuid"
)

// Appointment is the scheduled intervention slot created when a quote-accepted
// request is planned.
type Appointment struct {
	ID        uuid.UUID `json:"id"`
	RequestID uuid.UUID `json:"request_id"`
	At        time.Time `json:"at"`
	Location  string    `json:"location"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

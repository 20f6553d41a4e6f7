package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	"nauticare/internal/workflow"
)

// RequestHistory is one audit line per successful transition, written in the
// same transaction as the status change.
type RequestHistory struct {
	ID        uuid.UUID       `json:"id"`
	RequestID uuid.UUID       `json:"request_id"`
	ActorID   uuid.UUID       `json:"actor_id"`
	ActorRole workflow.Role   `json:"actor_role"`
	Intent    workflow.Intent `json:"intent"`
	OldStatus workflow.Status `json:"old_status"`
	NewStatus workflow.Status `json:"new_status"`
	Comment   null.String     `json:"comment"`
	CreatedAt time.Time       `json:"created_at"`
}

package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	"nauticare/internal/workflow"
)

// ServiceRequest is the central entity of the marketplace: one maintenance
// demand moving through the lifecycle. Status is only ever mutated through the
// transition engine; everything here besides the denormalized party names maps
// onto the service_requests table.
type ServiceRequest struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    Category         `json:"category"`
	Status      workflow.Status  `json:"status"`
	Urgency     workflow.Urgency `json:"urgency"`

	ClientID   uuid.UUID `json:"client_id"`
	ClientName string    `json:"client_name"`

	BoatID   uuid.NullUUID `json:"boat_id"`
	BoatName null.String   `json:"boat_name"`

	BoatManagerID   uuid.NullUUID `json:"boat_manager_id"`
	BoatManagerName null.String   `json:"boat_manager_name"`

	CompanyID   uuid.NullUUID `json:"company_id"`
	CompanyName null.String   `json:"company_name"`

	// Financials; populated by the quote and invoice side effects.
	Amount  null.Float64 `json:"amount"`
	Deposit null.Float64 `json:"deposit"`

	// First-class invoice fields. The legacy system smuggled the reference and
	// date through the notes text; here they are columns.
	InvoiceReference null.String `json:"invoice_reference"`
	InvoiceDate      null.Time   `json:"invoice_date"`
	PaymentDueDate   null.Time   `json:"payment_due_date"`

	ScheduledAt       null.Time   `json:"scheduled_at"`
	ScheduledLocation null.String `json:"scheduled_location"`
	ScheduledNotes    null.String `json:"scheduled_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// State snapshots the fields the transition engine decides against.
func (r *ServiceRequest) State() workflow.RequestState {
	return workflow.RequestState{
		Status:     r.Status,
		HasCompany: r.CompanyID.Valid,
		Amount:     r.Amount,
	}
}

// Handler is the party currently expected to act on a request, with the
// contextual line the list views print under the title.
type Handler struct {
	Actor       workflow.Role `json:"actor"`
	PartyName   string        `json:"party_name"`
	DisplayText string        `json:"display_text"`
	ColorClass  string        `json:"color_class"`
}

// ResolveHandler derives the current handler from status and attached parties.
// Deterministic and side-effect free: recomputed on every read, never stored.
func (r *ServiceRequest) ResolveHandler() Handler {
	h := Handler{
		Actor:       workflow.RoleClient,
		PartyName:   r.ClientName,
		DisplayText: r.Status.Label(),
		ColorClass:  r.Status.Color(),
	}

	switch r.Status {
	case workflow.StatusSubmitted, workflow.StatusInProgress:
		if r.BoatManagerID.Valid {
			h.Actor = workflow.RoleBoatManager
			h.PartyName = r.BoatManagerName.String
		}
	case workflow.StatusForwarded, workflow.StatusQuoteSent, workflow.StatusQuoteAccepted,
		workflow.StatusScheduled, workflow.StatusCompleted, workflow.StatusReadyToBill,
		workflow.StatusToPay, workflow.StatusPaid:
		if r.CompanyID.Valid {
			h.Actor = workflow.RoleCompany
			h.PartyName = r.CompanyName.String
		}
	case workflow.StatusCancelled:
		// handler stays with the client; nothing is expected of anyone
	}

	// Display overrides, in priority order.
	switch {
	case r.Status == workflow.StatusScheduled && r.ScheduledAt.Valid:
		h.DisplayText = "Scheduled for " + r.ScheduledAt.Time.Format("02 Jan 2006 15:04")
	case r.Status == workflow.StatusToPay && r.InvoiceReference.Valid:
		h.DisplayText = "Invoice awaiting payment"
	case r.Status == workflow.StatusPaid && r.InvoiceReference.Valid:
		h.DisplayText = "Invoice settled"
	}

	return h
}

// SourceRole tells which party fulfilled the work, used to sub-bucket the
// billing statuses: a request with a company attached counts for the company,
// one handled by a boat manager alone counts for the manager.
func (r *ServiceRequest) SourceRole() workflow.Role {
	if r.CompanyID.Valid {
		return workflow.RoleCompany
	}
	if r.BoatManagerID.Valid {
		return workflow.RoleBoatManager
	}
	return workflow.RoleClient
}
